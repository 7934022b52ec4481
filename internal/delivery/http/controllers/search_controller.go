package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// SearchController handles user and post search.
type SearchController struct {
	baseController
	Service domain.SearchService
}

// NewSearchController creates a SearchController. baseURL is used for paging links.
func NewSearchController(logger *slog.Logger, baseURL string, svc domain.SearchService) *SearchController {
	return &SearchController{
		baseController: baseController{Logger: logger, BaseURL: baseURL},
		Service:        svc,
	}
}

func parseSearchType(s string) (domain.SearchType, error) {
	switch domain.SearchType(s) {
	case "", domain.SearchAllTypes:
		return domain.SearchAllTypes, nil
	case domain.SearchUsers, domain.SearchPosts:
		return domain.SearchType(s), nil
	}
	return "", domain.NewValidationError("type", "type must be one of: all, user, post")
}

func parseUserFilter(s string) (domain.UserSearchFilter, error) {
	switch f := domain.UserSearchFilter(s); f {
	case domain.UserFilterNone, domain.UserFilterFollowing, domain.UserFilterFollowers:
		return f, nil
	}
	return "", domain.NewValidationError("filter", "filter must be one of: following, followers")
}

// Search godoc
// @Summary Search users and posts
// @Description type=all returns {users:{data,total}, posts:{data,total}}; total_records and result_count sum both collections.
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param type query string false "all, user or post" Enums(all, user, post) default(all)
// @Param filter query string false "Restrict users to following or followers" Enums(following, followers)
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /search [get]
func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	searchType, err := parseSearchType(q.Get("type"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	filter, err := parseUserFilter(q.Get("filter"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	query := q.Get("q")

	switch searchType {
	case domain.SearchUsers:
		res, err := c.Service.SearchUsers(r.Context(), query, filter, userID, page)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		writePage(&c.baseController, w, r, page, res)
	case domain.SearchPosts:
		res, err := c.Service.SearchPosts(r.Context(), query, userID, page)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		writePage(&c.baseController, w, r, page, res)
	default:
		res, err := c.Service.SearchAll(r.Context(), query, filter, userID, page)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		env, err := domain.BuildCompositePage(page, res, res.Total(), helpers.CurrentURL(c.BaseURL, r))
		if err != nil {
			c.fail(w, r, err)
			return
		}
		helpers.WriteJSON(w, http.StatusOK, env)
	}
}
