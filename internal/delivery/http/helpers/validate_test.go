package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirm"`
}

func (b signUpBody) Validate() []string {
	if b.Confirm != b.Password {
		return []string{"confirm must match password"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOK      bool
		wantCode    string
		wantMessage string
	}{
		{name: "valid", body: `{"email":"a@b.co","password":"12345678","confirm":"12345678"}`, wantOK: true},
		{name: "malformed", body: `{`, wantCode: ErrCodeBadRequest},
		{name: "unknown field", body: `{"email":"a@b.co","admin":true}`, wantCode: ErrCodeBadRequest},
		{name: "tag rules", body: `{"email":"nope","password":"short"}`, wantCode: ErrCodeValidationError, wantMessage: "email must be a valid email; password must be at least 8"},
		{name: "cross field rule", body: `{"email":"a@b.co","password":"12345678","confirm":"x"}`, wantCode: ErrCodeValidationError, wantMessage: "confirm must match password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest signUpBody

			ok := DecodeAndValidate(rr, req, &dest)

			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "a@b.co", dest.Email)
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var body APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error.Message)
			}
		})
	}
}
