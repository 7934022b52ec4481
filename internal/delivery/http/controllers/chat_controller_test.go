package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

func TestChatController_AddParticipants(t *testing.T) {
	rejected := &domain.ParticipantErrors{Items: []domain.ParticipantError{
		{Message: "User not found", UserID: 40, GroupID: 7, Code: domain.CodeNotFound},
		{Message: "Admin cannot demote group creator", UserID: 1, GroupID: 7, Code: domain.CodeForbidden},
	}}

	tests := []struct {
		name        string
		body        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails []domain.ParticipantError
		wantApplied []domain.ParticipantChange
	}{
		{
			name:        "added",
			body:        `{"participants":[{"user_id":5,"role":"user"},{"user_id":6,"role":"admin"}]}`,
			wantStatus:  http.StatusOK,
			wantApplied: []domain.ParticipantChange{{UserID: 5, Role: domain.RoleUser}, {UserID: 6, Role: domain.RoleAdmin}},
		},
		{
			name:        "every rejected item is reported",
			body:        `{"participants":[{"user_id":40,"role":"user"},{"user_id":1,"role":"admin"}]}`,
			err:         rejected,
			wantStatus:  http.StatusBadRequest,
			wantCode:    helpers.ErrCodeBadRequest,
			wantDetails: rejected.Items,
			wantApplied: []domain.ParticipantChange{{UserID: 40, Role: domain.RoleUser}, {UserID: 1, Role: domain.RoleAdmin}},
		},
		{
			name:       "creator role cannot be assigned",
			body:       `{"participants":[{"user_id":5,"role":"creator"}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidationError,
		},
		{
			name:       "empty batch",
			body:       `{"participants":[]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidationError,
		},
		{
			name:        "acting user cannot manage",
			body:        `{"participants":[{"user_id":5,"role":"user"}]}`,
			err:         domain.ErrForbidden,
			wantStatus:  http.StatusForbidden,
			wantCode:    helpers.ErrCodeForbidden,
			wantApplied: []domain.ParticipantChange{{UserID: 5, Role: domain.RoleUser}},
		},
		{
			name:        "group missing",
			body:        `{"participants":[{"user_id":5,"role":"user"}]}`,
			err:         fmt.Errorf("group chat not found: %w", domain.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    helpers.ErrCodeNotFound,
			wantApplied: []domain.ParticipantChange{{UserID: 5, Role: domain.RoleUser}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChatService{err: tt.err}
			ctrl := NewChatController(testLogger, testBaseURL, svc)

			rr := serve(t, "POST /chatrooms/{roomId}/participants", ctrl.AddParticipants,
				http.MethodPost, "/chatrooms/7/participants", tt.body, 2)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantApplied, svc.gotChanges)
			env := decode(t, rr)
			if tt.wantCode == "" {
				assert.Equal(t, int64(7), svc.gotRoomID)
				assert.Equal(t, int64(2), svc.gotActorID)
				assert.Equal(t, "Participants added.", env.Message)
				return
			}
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			if tt.wantDetails != nil {
				assert.Equal(t, "failed to add participants into the group", env.Error.Message)
				var details []domain.ParticipantError
				require.NoError(t, json.Unmarshal(env.Error.Details, &details))
				assert.Equal(t, tt.wantDetails, details)
			}
		})
	}
}

func TestChatController_UpdateParticipants(t *testing.T) {
	svc := &fakeChatService{}
	ctrl := NewChatController(testLogger, testBaseURL, svc)

	rr := serve(t, "PATCH /chatrooms/{roomId}/participants", ctrl.UpdateParticipants,
		http.MethodPatch, "/chatrooms/7/participants", `{"participants":[{"user_id":4,"role":"admin"}]}`, 1)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []domain.ParticipantChange{{UserID: 4, Role: domain.RoleAdmin}}, svc.gotChanges)
}

func TestChatController_RemoveParticipants(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		svc := &fakeChatService{}
		ctrl := NewChatController(testLogger, testBaseURL, svc)
		rr := serve(t, "DELETE /chatrooms/{roomId}/participants", ctrl.RemoveParticipants,
			http.MethodDelete, "/chatrooms/7/participants", `{"ids":[4,5]}`, 1)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []int64{4, 5}, svc.gotRemovals)
	})

	t.Run("rejected", func(t *testing.T) {
		svc := &fakeChatService{err: &domain.ParticipantErrors{Deleting: true, Items: []domain.ParticipantError{
			{Message: "Can't delete user with role admin with current role (admin)", UserID: 3, GroupID: 7, Code: domain.CodeForbidden},
		}}}
		ctrl := NewChatController(testLogger, testBaseURL, svc)
		rr := serve(t, "DELETE /chatrooms/{roomId}/participants", ctrl.RemoveParticipants,
			http.MethodDelete, "/chatrooms/7/participants", `{"ids":[3]}`, 2)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		env := decode(t, rr)
		assert.Equal(t, "failed to remove participants", env.Error.Message)
	})

	t.Run("non positive id", func(t *testing.T) {
		svc := &fakeChatService{}
		ctrl := NewChatController(testLogger, testBaseURL, svc)
		rr := serve(t, "DELETE /chatrooms/{roomId}/participants", ctrl.RemoveParticipants,
			http.MethodDelete, "/chatrooms/7/participants", `{"ids":[0]}`, 2)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Nil(t, svc.gotRemovals)
	})
}

func TestChatController_CreateRoom(t *testing.T) {
	svc := &fakeChatService{}
	ctrl := NewChatController(testLogger, testBaseURL, svc)

	rr := serve(t, "POST /chatrooms", ctrl.CreateRoom, http.MethodPost, "/chatrooms",
		`{"title":"Go devs","participants":[{"user_id":5,"role":"admin"}]}`, 1)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Go devs", svc.created.Title)
	assert.Equal(t, []domain.ParticipantChange{{UserID: 5, Role: domain.RoleAdmin}}, svc.created.Participants)

	var room domain.ChatRoom
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &room))
	assert.True(t, room.IsGroupChat)
}

func TestChatController_ListDirectMessages_EmptyConversation(t *testing.T) {
	ctrl := NewChatController(testLogger, testBaseURL, &fakeChatService{})

	rr := serve(t, "GET /chats/{recipientId}", ctrl.ListDirectMessages, http.MethodGet, "/chats/9?offset=10", "", 1)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decode(t, rr)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Nil(t, env.Pagination.Next)
	require.NotNil(t, env.Pagination.Previous)
	assert.Equal(t, testBaseURL+"/chats/9?limit=20&offset=0", *env.Pagination.Previous)
	assert.Equal(t, 0, env.Pagination.ResultCount)
}
