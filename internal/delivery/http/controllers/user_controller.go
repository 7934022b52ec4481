package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// UpdateAccountRequest is the request body for PATCH /me/account. All fields are optional.
type UpdateAccountRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=30"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=50"`
	LastName    *string `json:"last_name" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// Validate implements Validator.
func (u UpdateAccountRequest) Validate() []string {
	if u.Username == nil && u.FirstName == nil && u.LastName == nil && u.Description == nil {
		return []string{"at least one field is required"}
	}
	return nil
}

// AccountSuccessResponse is the success response envelope for the /me/account endpoints.
type AccountSuccessResponse struct {
	Status string       `json:"status"`
	Data   *domain.User `json:"data"`
}

// ProfileSuccessResponse is the success response envelope for GET /users/{userId}.
type ProfileSuccessResponse struct {
	Status string              `json:"status"`
	Data   *domain.UserProfile `json:"data"`
}

// UserController handles account and profile endpoints.
type UserController struct {
	baseController
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		baseController: baseController{Logger: logger},
		Service:        svc,
	}
}

// GetAccount godoc
// @Summary Get current account
// @Description Returns the authenticated user's account. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AccountSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/account [get]
func (c *UserController) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetAccount(r.Context(), userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateAccount godoc
// @Summary Update current account
// @Description Update username, names or description of the authenticated user. Username must be unique.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateAccountRequest true "Fields to update"
// @Success 200 {object} controllers.AccountSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/account [patch]
func (c *UserController) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateAccount(r.Context(), userID, domain.UpdateAccountInput{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Description: req.Description,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// GetProfile godoc
// @Summary Get a user's profile
// @Description Public profile with follower, following and post counts. Blocked users are not found.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userId} [get]
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := c.pathID(w, r, "userId")
	if !ok {
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), id, viewerID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
