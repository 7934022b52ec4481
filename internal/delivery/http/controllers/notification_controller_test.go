package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

func TestNotificationController_List(t *testing.T) {
	svc := &fakeNotificationService{}
	ctrl := NewNotificationController(testLogger, testBaseURL, svc)

	rr := serve(t, "GET /me/notifications", ctrl.List, http.MethodGet, "/me/notifications?order_by=oldest", "", 1)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.OrderOldest, svc.order)

	rr = serve(t, "GET /me/notifications", ctrl.List, http.MethodGet, "/me/notifications?order_by=random", "", 1)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, helpers.ErrCodeValidationError, decode(t, rr).Error.Code)
}

func TestNotificationController_Clear(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       time.Duration
	}{
		{name: "milliseconds", query: "?before_timestamp=60000", wantStatus: http.StatusOK, want: time.Minute},
		{name: "days", query: "?before_timestamp=2d", wantStatus: http.StatusOK, want: 48 * time.Hour},
		{name: "zero clears all", query: "?before_timestamp=0", wantStatus: http.StatusOK, want: 0},
		{name: "missing", query: "", wantStatus: http.StatusBadRequest},
		{name: "bad unit", query: "?before_timestamp=3w", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeNotificationService{olderThan: -1}
			ctrl := NewNotificationController(testLogger, testBaseURL, svc)

			rr := serve(t, "DELETE /me/notifications", ctrl.Clear, http.MethodDelete, "/me/notifications"+tt.query, "", 1)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, time.Duration(-1), svc.olderThan, "service must not be called")
				return
			}
			assert.Equal(t, tt.want, svc.olderThan)
			assert.JSONEq(t, `{"deleted":4}`, string(decode(t, rr).Data))
		})
	}
}
