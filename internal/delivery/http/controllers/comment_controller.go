package controllers

import (
	"log/slog"
	"net/http"

	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/domain"
)

// CreateCommentRequest is the request body for POST /comments
type CreateCommentRequest struct {
	PostID   int64  `json:"post_id" validate:"required,gt=0"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	Comment  string `json:"comment" validate:"required,max=2000"`
}

// CommentBodyRequest is the request body for replies and comment updates.
type CommentBodyRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// CommentSuccessResponse is the success response envelope for single comment endpoints.
type CommentSuccessResponse struct {
	Status string          `json:"status"`
	Data   *domain.Comment `json:"data"`
}

// CommentController handles comments and replies.
type CommentController struct {
	baseController
	Service domain.CommentService
}

// NewCommentController creates a CommentController. baseURL is used for paging links.
func NewCommentController(logger *slog.Logger, baseURL string, svc domain.CommentService) *CommentController {
	return &CommentController{
		baseController: baseController{Logger: logger, BaseURL: baseURL},
		Service:        svc,
	}
}

// ListByPost godoc
// @Summary List comments of a post
// @Description Top-level comments only; replies are listed under each comment.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param order_by query string false "latest or oldest" Enums(latest, oldest)
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of comments"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /posts/{postId}/comments [get]
func (c *CommentController) ListByPost(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	postID, ok := c.pathID(w, r, "postId")
	if !ok {
		return
	}
	order, err := domain.ParseSortOrder(r.URL.Query().Get("order_by"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.Service.ListByPost(r.Context(), postID, userID, order, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// Get godoc
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} controllers.CommentSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /comments/{commentId} [get]
func (c *CommentController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := c.pathID(w, r, "commentId")
	if !ok {
		return
	}
	comment, err := c.Service.Get(r.Context(), id, userID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}

// Create godoc
// @Summary Comment on a post
// @Description parent_id makes the comment a reply; the parent must belong to the same post.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCommentRequest true "Comment"
// @Success 201 {object} controllers.CommentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /comments [post]
func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.Create(r.Context(), userID, domain.CreateCommentInput{
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Comment:  req.Comment,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// Reply godoc
// @Summary Reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Parent comment ID"
// @Param body body CommentBodyRequest true "Reply"
// @Success 201 {object} controllers.CommentSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /comments/{commentId}/replies [post]
func (c *CommentController) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	parentID, ok := c.pathID(w, r, "commentId")
	if !ok {
		return
	}
	var req CommentBodyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reply, err := c.Service.Reply(r.Context(), parentID, userID, req.Comment)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reply)
}

// ListReplies godoc
// @Summary List replies of a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit (max 50)" default(20)
// @Success 200 {object} domain.PagingEnvelope "data is a list of comments"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /comments/{commentId}/replies [get]
func (c *CommentController) ListReplies(w http.ResponseWriter, r *http.Request) {
	userID, page, ok := c.userAndPage(w, r)
	if !ok {
		return
	}
	parentID, ok := c.pathID(w, r, "commentId")
	if !ok {
		return
	}
	res, err := c.Service.ListReplies(r.Context(), parentID, userID, page)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writePage(&c.baseController, w, r, page, res)
}

// Update godoc
// @Summary Edit a comment
// @Description Only the author may edit a comment.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param body body CommentBodyRequest true "New text"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /comments/{commentId} [patch]
func (c *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := c.pathID(w, r, "commentId")
	if !ok {
		return
	}
	var req CommentBodyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Update(r.Context(), id, userID, req.Comment); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Comment updated.")
}

// Delete godoc
// @Summary Delete a comment
// @Description Only the author may delete a comment. Replies are deleted with it.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} controllers.MessageResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /comments/{commentId} [delete]
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := c.pathID(w, r, "commentId")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id, userID); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Comment deleted.")
}
