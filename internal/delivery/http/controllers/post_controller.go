package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// CreatePostRequest is the request body for POST /posts
type CreatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=150"`
	Content string  `json:"content" validate:"required"`
}

// UpdatePostRequest is the request body for PATCH /posts/{postId}. Both fields are optional.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=150"`
	Content *string `json:"content"`
}

// Validate implements Validator.
func (u UpdatePostRequest) Validate() []string {
	if u.Title == nil && u.Content == nil {
		return []string{"title or content is required"}
	}
	return nil
}

// SavePostRequest is the request body for POST /me/posts/saved
type SavePostRequest struct {
	PostID int64 `json:"post_id" validate:"required,gt=0"`
}

// PostSuccessResponse is the success response envelope for single post endpoints.
type PostSuccessResponse struct {
	Status string       `json:"status"`
	Data   *domain.Post `json:"data"`
}

// PostLikesSuccessResponse is the success response envelope for GET /posts/{postId}/likes.
type PostLikesSuccessResponse struct {
	Status string            `json:"status"`
	Data   *domain.PostLikes `json:"data"`
}

// BoolSuccessResponse is the success response envelope of yes/no lookups.
type BoolSuccessResponse struct {
	Status string `json:"status"`
	Data   bool   `json:"data"`
}

// PostController handles posts, likes and bookmarks.
type PostController struct {
	baseController
	Service domain.PostService
}

// NewPostController creates a PostController. baseURL is used for paging links.
func NewPostController(logger *slog.Logger, baseURL string, svc domain.PostService) *PostController {
	return &PostController{
		baseController: baseController{Logger: logger, BaseURL: baseURL},
		Service:        svc,
	}
}

func (c *PostController) list(w http.ResponseWriter, r *http.Request, filter func(userID int64) domain.PostFilter) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	res, err := c.Service.List(r.Context(), filter(userID), userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// ListAll godoc
// @Summary List posts
// @Description Every post visible to the caller, newest first.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of posts"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /posts [get]
func (c *PostController) ListAll(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, func(int64) domain.PostFilter { return domain.PostFilter{} })
}

// ListMine godoc
// @Summary List my posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of posts"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/posts [get]
func (c *PostController) ListMine(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, func(userID int64) domain.PostFilter { return domain.PostFilter{AuthorID: userID} })
}

// ListFeed godoc
// @Summary List posts of followed users
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of posts"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/following/posts [get]
func (c *PostController) ListFeed(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, func(userID int64) domain.PostFilter { return domain.PostFilter{FollowedBy: userID} })
}

// ListSaved godoc
// @Summary List bookmarked posts
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of posts"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /me/posts/saved [get]
func (c *PostController) ListSaved(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, func(userID int64) domain.PostFilter { return domain.PostFilter{SavedBy: userID} })
}

// Get godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.PostSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /posts/{postId} [get]
func (c *PostController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	post, err := c.Service.Get(r.Context(), postID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePostRequest true "Post"
// @Success 201 {object} controllers.PostSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Router /posts [post]
func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req CreatePostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	post, err := c.Service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, post)
}

// Update godoc
// @Summary Update a post
// @Description Only the author may update a post.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param body body UpdatePostRequest true "Fields to update"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /posts/{postId} [patch]
func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	var req UpdatePostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Update(r.Context(), postID, userID, req.Title, req.Content); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Post updated.")
}

// Delete godoc
// @Summary Delete a post
// @Description Only the author may delete a post.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /posts/{postId} [delete]
func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), postID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Post deleted.")
}

// ListLikes godoc
// @Summary List users who liked a post
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.PostLikesSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /posts/{postId}/likes [get]
func (c *PostController) ListLikes(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	likes, err := c.Service.ListLikes(r.Context(), postID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, likes)
}

// Like godoc
// @Summary Like a post
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 201 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /posts/{postId}/likes [post]
func (c *PostController) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	if err := c.Service.Like(r.Context(), postID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusCreated, "Post liked.")
}

// Unlike godoc
// @Summary Remove a like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /posts/{postId}/likes [delete]
func (c *PostController) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	if err := c.Service.Unlike(r.Context(), postID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Like removed.")
}

// IsLiked godoc
// @Summary Check whether the caller liked a post
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Router /posts/{postId}/liked [get]
func (c *PostController) IsLiked(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	liked, err := c.Service.IsLiked(r.Context(), postID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, liked)
}

// Save godoc
// @Summary Bookmark a post
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SavePostRequest true "Post to bookmark"
// @Success 201 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /me/posts/saved [post]
func (c *PostController) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req SavePostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Save(r.Context(), req.PostID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusCreated, "Post saved.")
}

// Unsave godoc
// @Summary Remove a bookmark
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/posts/saved/{postId} [delete]
func (c *PostController) Unsave(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	if err := c.Service.Unsave(r.Context(), postID, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Bookmark removed.")
}

// IsSaved godoc
// @Summary Check whether the caller bookmarked a post
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Router /me/posts/saved/{postId}/bookmarked [get]
func (c *PostController) IsSaved(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	saved, err := c.Service.IsSaved(r.Context(), postID, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, saved)
}
