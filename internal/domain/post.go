package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyLiked is returned when a user likes a post twice.
var ErrAlreadyLiked = errors.New("post already liked")

// Post is a user publication with its engagement counters.
// swagger:model Post
type Post struct {
	ID            int64          `json:"id"`
	Title         *string        `json:"title"`
	Content       string         `json:"content"`
	Author        UserSimplified `json:"author"`
	TotalLikes    int            `json:"total_likes"`
	TotalComments int            `json:"total_comments"`
	IsLiked       bool           `json:"is_liked"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PostFilter selects which posts a listing returns. Zero value lists every post.
type PostFilter struct {
	AuthorID   int64
	FollowedBy int64
	SavedBy    int64
	Query      string
}

// PostLikes lists the users who liked a post.
// swagger:model PostLikes
type PostLikes struct {
	PostID  int64            `json:"post_id"`
	LikedBy []UserSimplified `json:"liked_by"`
	Total   int              `json:"total"`
}

// PostRepository defines the interface for post storage. Listings and lookups
// hide posts whose author blocked, or is blocked by, viewerID.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id, viewerID int64) (*Post, error)
	Update(ctx context.Context, id int64, title, content *string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter PostFilter, viewerID int64, page PageRequest) ([]*Post, int, error)
}

// LikeRepository defines storage for post likes.
type LikeRepository interface {
	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
	ListLikers(ctx context.Context, postID, viewerID int64) ([]UserSimplified, error)
	Count(ctx context.Context, postID int64) (int, error)
}

// SavedPostRepository defines storage for bookmarked posts.
type SavedPostRepository interface {
	Save(ctx context.Context, postID, userID int64) error
	Remove(ctx context.Context, postID, userID int64) error
	IsSaved(ctx context.Context, postID, userID int64) (bool, error)
}

// PostService defines post, like and bookmark operations.
type PostService interface {
	List(ctx context.Context, filter PostFilter, viewerID int64, page PageRequest) (PageResult[*Post], error)
	Get(ctx context.Context, id, viewerID int64) (*Post, error)
	Create(ctx context.Context, authorID int64, title *string, content string) (*Post, error)
	Update(ctx context.Context, id, userID int64, title, content *string) error
	Delete(ctx context.Context, id, userID int64) error

	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
	ListLikes(ctx context.Context, postID, viewerID int64) (*PostLikes, error)

	Save(ctx context.Context, postID, userID int64) error
	Unsave(ctx context.Context, postID, userID int64) error
	IsSaved(ctx context.Context, postID, userID int64) (bool, error)
}
