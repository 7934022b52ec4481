package domain

import (
	"context"
	"time"
)

// Comment is a reply to a post or, when ParentID is set, to another comment.
// swagger:model Comment
type Comment struct {
	ID           int64          `json:"id"`
	PostID       int64          `json:"post_id"`
	ParentID     *int64         `json:"parent_id"`
	Comment      string         `json:"comment"`
	User         UserSimplified `json:"user"`
	TotalReplies int            `json:"total_replies"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SortOrder is the creation-time ordering of a listing.
type SortOrder string

const (
	OrderLatest SortOrder = "latest"
	OrderOldest SortOrder = "oldest"
)

// ParseSortOrder maps the order_by query value, defaulting to latest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", OrderLatest:
		return OrderLatest, nil
	case OrderOldest:
		return OrderOldest, nil
	}
	return "", NewValidationError("order_by", "order_by must be one of: latest, oldest")
}

// CommentRepository defines the interface for comment storage.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id, viewerID int64) (*Comment, error)
	Update(ctx context.Context, id int64, comment string) error
	Delete(ctx context.Context, id int64) error
	ListByPostID(ctx context.Context, postID, viewerID int64, order SortOrder, page PageRequest) ([]*Comment, int, error)
	ListReplies(ctx context.Context, parentID, viewerID int64, page PageRequest) ([]*Comment, int, error)
}

// CreateCommentInput holds the fields of a new comment.
type CreateCommentInput struct {
	PostID   int64
	ParentID *int64
	Comment  string
}

// CommentService defines comment operations.
type CommentService interface {
	Get(ctx context.Context, id, viewerID int64) (*Comment, error)
	Create(ctx context.Context, userID int64, in CreateCommentInput) (*Comment, error)
	Reply(ctx context.Context, parentID, userID int64, comment string) (*Comment, error)
	Update(ctx context.Context, id, userID int64, comment string) error
	Delete(ctx context.Context, id, userID int64) error
	ListByPost(ctx context.Context, postID, viewerID int64, order SortOrder, page PageRequest) (PageResult[*Comment], error)
	ListReplies(ctx context.Context, parentID, viewerID int64, page PageRequest) (PageResult[*Comment], error)
}
