package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// TargetUserRequest is the request body for POST /me/follow and POST /me/block
type TargetUserRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// FollowController handles the follow graph and user blocks.
type FollowController struct {
	baseController
	Service domain.FollowService
}

// NewFollowController creates a FollowController. baseURL is used for paging links.
func NewFollowController(logger *slog.Logger, baseURL string, svc domain.FollowService) *FollowController {
	return &FollowController{
		baseController: baseController{Logger: logger, BaseURL: baseURL},
		Service:        svc,
	}
}

// Follow godoc
// @Summary Follow a user
// @Tags follows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TargetUserRequest true "User to follow"
// @Success 201 {object} controllers.MessageResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (following yourself)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /me/follow [post]
func (c *FollowController) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req TargetUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Follow(r.Context(), userID, req.UserID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusCreated, "User followed.")
}

// Unfollow godoc
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/follow/{userId} [delete]
func (c *FollowController) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	otherID, ok := c.pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := c.Service.Unfollow(r.Context(), userID, otherID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "User unfollowed.")
}

// ListFollowing godoc
// @Summary List users I follow
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of users"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/following [get]
func (c *FollowController) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	res, err := c.Service.ListFollowing(r.Context(), userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// ListFollowers godoc
// @Summary List my followers
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of users"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/followers [get]
func (c *FollowController) ListFollowers(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	res, err := c.Service.ListFollowers(r.Context(), userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// Block godoc
// @Summary Block a user
// @Description Removes follows in both directions and hides each user's content from the other.
// @Tags blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TargetUserRequest true "User to block"
// @Success 201 {object} controllers.MessageResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /me/block [post]
func (c *FollowController) Block(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req TargetUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Block(r.Context(), userID, req.UserID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusCreated, "User blocked.")
}

// Unblock godoc
// @Summary Unblock a user
// @Tags blocks
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/block/{userId} [delete]
func (c *FollowController) Unblock(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	otherID, ok := c.pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := c.Service.Unblock(r.Context(), userID, otherID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "User unblocked.")
}
