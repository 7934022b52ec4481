package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// SendDirectMessageRequest is the request body for POST /chats
type SendDirectMessageRequest struct {
	RecipientID int64  `json:"recipient_id" validate:"required,gt=0"`
	Message     string `json:"message" validate:"required,max=5000"`
}

// MessageBodyRequest is the request body for room messages and message edits.
type MessageBodyRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// ParticipantItem is one participant of a batch request.
type ParticipantItem struct {
	UserID int64                  `json:"user_id" validate:"required,gt=0"`
	Role   domain.ParticipantRole `json:"role" validate:"required,oneof=admin user"`
}

// CreateRoomRequest is the request body for POST /chatrooms
type CreateRoomRequest struct {
	Title        string            `json:"title" validate:"required,max=100"`
	Description  *string           `json:"description" validate:"omitempty,max=500"`
	Participants []ParticipantItem `json:"participants" validate:"omitempty,dive"`
}

// ParticipantsRequest is the request body for POST and PATCH /chatrooms/{roomId}/participants
type ParticipantsRequest struct {
	Participants []ParticipantItem `json:"participants" validate:"required,min=1,dive"`
}

// RemoveParticipantsRequest is the request body for DELETE /chatrooms/{roomId}/participants
type RemoveParticipantsRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// MessageSuccessResponse is the success response envelope for a sent message.
type MessageSuccessResponse struct {
	Status string          `json:"status"`
	Data   *domain.Message `json:"data"`
}

// RoomSuccessResponse is the success response envelope for a chat room.
type RoomSuccessResponse struct {
	Status string           `json:"status"`
	Data   *domain.ChatRoom `json:"data"`
}

// ParticipantErrorResponse is the 400 body of a rejected participant batch;
// error.details lists every rejected item.
type ParticipantErrorResponse struct {
	Status string `json:"status"`
	Error  struct {
		Code    string                    `json:"code"`
		Message string                    `json:"message"`
		Details []domain.ParticipantError `json:"details"`
	} `json:"error"`
}

func toChanges(items []ParticipantItem) []domain.ParticipantChange {
	out := make([]domain.ParticipantChange, len(items))
	for i, it := range items {
		out[i] = domain.ParticipantChange{UserID: it.UserID, Role: it.Role}
	}
	return out
}

// ChatController handles direct messages and group chat rooms.
type ChatController struct {
	baseController
	Service domain.ChatService
}

// NewChatController creates a ChatController. baseURL is used for paging links.
func NewChatController(logger *slog.Logger, baseURL string, svc domain.ChatService) *ChatController {
	return &ChatController{
		baseController: baseController{Logger: logger, BaseURL: baseURL},
		Service:        svc,
	}
}

// ListDirectMessages godoc
// @Summary Conversation with a user
// @Description Messages exchanged with recipientId, newest first. Empty when the users never talked.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param recipientId path int true "Other user ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of messages"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /chats/{recipientId} [get]
func (c *ChatController) ListDirectMessages(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	recipientID, ok := c.pathID(w, r, "recipientId")
	if !ok {
		return
	}
	res, err := c.Service.ListDirectMessages(r.Context(), userID, recipientID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// SendDirectMessage godoc
// @Summary Send a direct message
// @Description Opens the conversation on first message.
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendDirectMessageRequest true "Message"
// @Success 201 {object} controllers.MessageSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /chats [post]
func (c *ChatController) SendDirectMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req SendDirectMessageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	msg, err := c.Service.SendDirectMessage(r.Context(), userID, req.RecipientID, req.Message)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, msg)
}

// UpdateMessage godoc
// @Summary Edit a message
// @Description Only the author may edit a message.
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Param body body MessageBodyRequest true "New text"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /messages/{messageId} [patch]
func (c *ChatController) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	messageID, ok := c.pathID(w, r, "messageId")
	if !ok {
		return
	}
	var req MessageBodyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.UpdateMessage(r.Context(), messageID, userID, req.Message); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Message updated.")
}

// DeleteMessage godoc
// @Summary Delete a message
// @Description Only the author may delete a message.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /messages/{messageId} [delete]
func (c *ChatController) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	messageID, ok := c.pathID(w, r, "messageId")
	if !ok {
		return
	}
	if err := c.Service.DeleteMessage(r.Context(), messageID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Message deleted.")
}

// ListMyRooms godoc
// @Summary List my conversations
// @Description Direct and group rooms of the caller with their last message.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of chat rooms"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/chats [get]
func (c *ChatController) ListMyRooms(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	res, err := c.Service.ListMyRooms(r.Context(), userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// CreateRoom godoc
// @Summary Create a group chat room
// @Description The caller becomes the room creator. Listed participants are checked as if added by the creator.
// @Tags chatrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoomRequest true "Room"
// @Success 201 {object} controllers.RoomSuccessResponse
// @Failure 400 {object} controllers.ParticipantErrorResponse "error.details lists rejected participants"
// @Router /chatrooms [post]
func (c *ChatController) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req CreateRoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	room, err := c.Service.CreateGroupRoom(r.Context(), userID, domain.CreateGroupRoomInput{
		Title:        req.Title,
		Description:  req.Description,
		Participants: toChanges(req.Participants),
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, room)
}

// GetRoom godoc
// @Summary Get a chat room
// @Description Participants only.
// @Tags chatrooms
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Success 200 {object} controllers.RoomSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /chatrooms/{roomId} [get]
func (c *ChatController) GetRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	roomID, ok := c.pathID(w, r, "roomId")
	if !ok {
		return
	}
	room, err := c.Service.GetRoom(r.Context(), roomID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, room)
}

// ListRoomMessages godoc
// @Summary List messages of a chat room
// @Tags chatrooms
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of messages"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /chatrooms/{roomId}/messages [get]
func (c *ChatController) ListRoomMessages(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	roomID, ok := c.pathID(w, r, "roomId")
	if !ok {
		return
	}
	res, err := c.Service.ListRoomMessages(r.Context(), roomID, userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// SendRoomMessage godoc
// @Summary Post a message in a chat room
// @Tags chatrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Param body body MessageBodyRequest true "Message"
// @Success 201 {object} controllers.MessageSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /chatrooms/{roomId}/messages [post]
func (c *ChatController) SendRoomMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	roomID, ok := c.pathID(w, r, "roomId")
	if !ok {
		return
	}
	var req MessageBodyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	msg, err := c.Service.SendRoomMessage(r.Context(), roomID, userID, req.Message)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, msg)
}

// AddParticipants godoc
// @Summary Add participants to a group
// @Description Requires role creator or admin. Every item is checked; if any is rejected nothing is applied.
// @Tags chatrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Param body body ParticipantsRequest true "Participants"
// @Success 200 {object} controllers.MessageResponse
// @Failure 400 {object} controllers.ParticipantErrorResponse "error.details lists rejected participants"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /chatrooms/{roomId}/participants [post]
func (c *ChatController) AddParticipants(w http.ResponseWriter, r *http.Request) {
	c.changeParticipants(w, r, c.Service.AddParticipants, "Participants added.")
}

// UpdateParticipants godoc
// @Summary Change participant roles
// @Description Requires role creator or admin. Admins may promote users but not demote admins or touch the creator.
// @Tags chatrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Param body body ParticipantsRequest true "Participants with their new role"
// @Success 200 {object} controllers.MessageResponse
// @Failure 400 {object} controllers.ParticipantErrorResponse "error.details lists rejected participants"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /chatrooms/{roomId}/participants [patch]
func (c *ChatController) UpdateParticipants(w http.ResponseWriter, r *http.Request) {
	c.changeParticipants(w, r, c.Service.UpdateParticipants, "Participants updated.")
}

func (c *ChatController) changeParticipants(w http.ResponseWriter, r *http.Request, apply func(context.Context, int64, int64, []domain.ParticipantChange) error, done string) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	roomID, ok := c.pathID(w, r, "roomId")
	if !ok {
		return
	}
	var req ParticipantsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := apply(r.Context(), roomID, userID, toChanges(req.Participants)); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, done)
}

// RemoveParticipants godoc
// @Summary Remove participants from a group
// @Description Requires role creator or admin. Admins cannot remove other admins or the creator. If any item is rejected nothing is removed.
// @Tags chatrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Param body body RemoveParticipantsRequest true "User IDs to remove"
// @Success 200 {object} controllers.MessageResponse
// @Failure 400 {object} controllers.ParticipantErrorResponse "error.details lists rejected participants"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /chatrooms/{roomId}/participants [delete]
func (c *ChatController) RemoveParticipants(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	roomID, ok := c.pathID(w, r, "roomId")
	if !ok {
		return
	}
	var req RemoveParticipantsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RemoveParticipants(r.Context(), roomID, userID, req.IDs); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Participants removed.")
}

// LeaveRoom godoc
// @Summary Leave a group
// @Description The creator cannot leave the group.
// @Tags chatrooms
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /chatrooms/{roomId}/leave [delete]
func (c *ChatController) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	roomID, ok := c.pathID(w, r, "roomId")
	if !ok {
		return
	}
	if err := c.Service.LeaveRoom(r.Context(), roomID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "You left the group.")
}
