package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"socialhub/internal/domain"
)

type postService struct {
	postRepo       domain.PostRepository
	likeRepo       domain.LikeRepository
	savedRepo      domain.SavedPostRepository
	contextTimeout time.Duration
}

// NewPostService creates a PostService for posts, likes and bookmarks.
func NewPostService(postRepo domain.PostRepository, likeRepo domain.LikeRepository, savedRepo domain.SavedPostRepository, timeout time.Duration) domain.PostService {
	return &postService{
		postRepo:       postRepo,
		likeRepo:       likeRepo,
		savedRepo:      savedRepo,
		contextTimeout: timeout,
	}
}

func (s *postService) List(ctx context.Context, filter domain.PostFilter, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.Post], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	posts, total, err := s.postRepo.List(ctx, filter, viewerID, page)
	if err != nil {
		return domain.PageResult[*domain.Post]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return domain.PageResult[*domain.Post]{Data: posts, Total: total}, nil
}

func (s *postService) Get(ctx context.Context, id, viewerID int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *postService) Create(ctx context.Context, authorID int64, title *string, content string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	now := time.Now()
	post := &domain.Post{
		Title:     trimmedOrNil(title),
		Content:   content,
		Author:    domain.UserSimplified{ID: authorID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

func (s *postService) Update(ctx context.Context, id, userID int64, title, content *string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if content != nil && strings.TrimSpace(*content) == "" {
		return fmt.Errorf("%w: content cannot be empty", domain.ErrInvalidInput)
	}
	if err := s.requireAuthor(ctx, id, userID); err != nil {
		return err
	}
	return s.postRepo.Update(ctx, id, trimmedOrNil(title), trimmedOrNil(content))
}

func (s *postService) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireAuthor(ctx, id, userID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func (s *postService) requireAuthor(ctx context.Context, id, userID int64) error {
	post, err := s.postRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if post.Author.ID != userID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *postService) Like(ctx context.Context, postID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	return s.likeRepo.Like(ctx, postID, userID)
}

func (s *postService) Unlike(ctx context.Context, postID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.likeRepo.Unlike(ctx, postID, userID)
}

func (s *postService) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.likeRepo.IsLiked(ctx, postID, userID)
}

func (s *postService) ListLikes(ctx context.Context, postID, viewerID int64) (*domain.PostLikes, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.postRepo.GetByID(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	likers, err := s.likeRepo.ListLikers(ctx, postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	if likers == nil {
		likers = []domain.UserSimplified{}
	}
	return &domain.PostLikes{PostID: postID, LikedBy: likers, Total: len(likers)}, nil
}

func (s *postService) Save(ctx context.Context, postID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	return s.savedRepo.Save(ctx, postID, userID)
}

func (s *postService) Unsave(ctx context.Context, postID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.savedRepo.Remove(ctx, postID, userID)
}

func (s *postService) IsSaved(ctx context.Context, postID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.savedRepo.IsSaved(ctx, postID, userID)
}

// trimmedOrNil trims s and maps an absent or blank value to nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
