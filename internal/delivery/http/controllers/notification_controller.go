package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// CreateNotificationRequest is the request body for POST /me/notifications
type CreateNotificationRequest struct {
	Type       domain.NotificationType `json:"type" validate:"required,oneof=liking_post comment replying_comment liking_comment follow"`
	ReceiverID int64                   `json:"receiver_id" validate:"required,gt=0"`
	PostID     *int64                  `json:"post_id" validate:"omitempty,gt=0"`
	CommentID  *int64                  `json:"comment_id" validate:"omitempty,gt=0"`
}

// NotificationSuccessResponse is the success response envelope for POST /me/notifications.
type NotificationSuccessResponse struct {
	Status string               `json:"status"`
	Data   *domain.Notification `json:"data"`
}

// ClearNotificationsResponse reports how many notifications were deleted.
type ClearNotificationsResponse struct {
	Deleted int64 `json:"deleted"`
}

// NotificationController handles the caller's notifications.
type NotificationController struct {
	baseController
	Service domain.NotificationService
}

// NewNotificationController creates a NotificationController. baseURL is used for paging links.
func NewNotificationController(logger *slog.Logger, baseURL string, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		baseController: baseController{Logger: logger, BaseURL: baseURL},
		Service:        svc,
	}
}

// List godoc
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param order_by query string false "latest or oldest" Enums(latest, oldest)
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of notifications"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	order, err := domain.ParseSortOrder(r.URL.Query().Get("order_by"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.Service.List(r.Context(), userID, order, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// Create godoc
// @Summary Notify a user
// @Description post_id is required for comment, replying_comment and liking_post; comment_id for liking_comment.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateNotificationRequest true "Notification"
// @Success 201 {object} controllers.NotificationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/notifications [post]
func (c *NotificationController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req CreateNotificationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	n, err := c.Service.Create(r.Context(), userID, domain.CreateNotificationInput{
		Type:       req.Type,
		ReceiverID: req.ReceiverID,
		PostID:     req.PostID,
		CommentID:  req.CommentID,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, n)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationId path int true "Notification ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/notifications/{notificationId}/read [patch]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := c.pathID(w, r, "notificationId")
	if !ok {
		return
	}
	if err := c.Service.MarkRead(r.Context(), id, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Notification marked as read.")
}

// Clear godoc
// @Summary Delete old notifications
// @Description Deletes notifications older than before_timestamp: milliseconds, or a number followed by h, d or y. 0 deletes all.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param before_timestamp query string true "Retention, e.g. 60000, 1h, 2d, 1y"
// @Success 200 {object} controllers.MessageResponse "data.deleted is the number of removed notifications"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/notifications [delete]
func (c *NotificationController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	olderThan, err := domain.ParseRetention(r.URL.Query().Get("before_timestamp"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	n, err := c.Service.Clear(r.Context(), userID, olderThan)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, MessageResponse{
		Status:  domain.StatusSuccess,
		Data:    ClearNotificationsResponse{Deleted: n},
		Message: "Notifications deleted.",
	})
}
