package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/delivery/http/middleware"
	"socialhub/internal/domain"
)

// baseController carries what every controller needs to write responses.
type baseController struct {
	Logger *slog.Logger
	// BaseURL is the public origin that paging links are resolved against.
	BaseURL string
}

func (c *baseController) fail(w http.ResponseWriter, r *http.Request, err error) {
	helpers.WriteServiceError(w, r, c.Logger, err)
}

// userID returns the authenticated user, writing a 401 when there is none.
func (c *baseController) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return id, ok
}

// userAndPage resolves the caller and the paging window of a list request.
func (c *baseController) userAndPage(w http.ResponseWriter, r *http.Request) (int64, domain.PageRequest, bool) {
	userID, ok := c.userID(w, r)
	if !ok {
		return 0, domain.PageRequest{}, false
	}
	page, err := helpers.ParsePageRequest(r)
	if err != nil {
		c.fail(w, r, err)
		return 0, domain.PageRequest{}, false
	}
	return userID, page, true
}

// pathID parses a path id, writing a 400 when it is malformed.
func (c *baseController) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := helpers.PathID(r, name)
	if err != nil {
		c.fail(w, r, err)
		return 0, false
	}
	return id, true
}

// writePage wraps result in the paging envelope of the current request.
func writePage[T any](c *baseController, w http.ResponseWriter, r *http.Request, page domain.PageRequest, result domain.PageResult[T]) {
	env, err := domain.BuildPage(page, result, helpers.CurrentURL(c.BaseURL, r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, env)
}

// MessageResponse is the success envelope of endpoints that only report an outcome.
type MessageResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}
