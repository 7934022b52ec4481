package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/domain"
)

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: domain.NewValidationError("limit", "too big"), wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationError},
		{name: "invalid input", err: fmt.Errorf("%w: content is required", domain.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "credentials", err: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthorized},
		{name: "token", err: domain.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthorized},
		{name: "forbidden", err: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: ErrCodeForbidden},
		{name: "wrapped not found", err: fmt.Errorf("post: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "user not found", err: domain.ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "duplicate email", err: domain.ErrDuplicateEmail, wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "already liked", err: domain.ErrAlreadyLiked, wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "unknown", err: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteServiceError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), logger, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			var body APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, StatusError, body.Status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestWriteServiceError_ParticipantErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := &domain.ParticipantErrors{Items: []domain.ParticipantError{
		{Message: "User not found", UserID: 9, GroupID: 7, Code: domain.CodeNotFound},
		{Message: "Admin cannot demote group creator", UserID: 1, GroupID: 7, Code: domain.CodeForbidden},
	}}

	rr := httptest.NewRecorder()
	WriteServiceError(rr, httptest.NewRequest(http.MethodPost, "/chatrooms/7/participants", nil), logger, fmt.Errorf("authorize: %w", err))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Status string `json:"status"`
		Error  struct {
			Code    string                    `json:"code"`
			Message string                    `json:"message"`
			Details []domain.ParticipantError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, ErrCodeBadRequest, body.Error.Code)
	assert.Equal(t, "failed to add participants into the group", body.Error.Message)
	assert.Equal(t, err.Items, body.Error.Details)
}

func TestWriteJSONSuccess_KeepsFalseData(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONSuccess(rr, http.StatusOK, false)
	assert.JSONEq(t, `{"status":"success","data":false}`, rr.Body.String())
}
