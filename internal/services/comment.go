package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"socialhub/internal/domain"
)

type commentService struct {
	commentRepo    domain.CommentRepository
	postRepo       domain.PostRepository
	contextTimeout time.Duration
}

// NewCommentService creates a CommentService.
func NewCommentService(commentRepo domain.CommentRepository, postRepo domain.PostRepository, timeout time.Duration) domain.CommentService {
	return &commentService{commentRepo: commentRepo, postRepo: postRepo, contextTimeout: timeout}
}

func (s *commentService) Get(ctx context.Context, id, viewerID int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.commentRepo.GetByID(ctx, id, viewerID)
}

func (s *commentService) Create(ctx context.Context, userID int64, in domain.CreateCommentInput) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID, userID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.PostID != in.PostID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", domain.ErrInvalidInput)
		}
	}
	return s.create(ctx, userID, in)
}

func (s *commentService) Reply(ctx context.Context, parentID, userID int64, comment string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	parent, err := s.commentRepo.GetByID(ctx, parentID, userID)
	if err != nil {
		return nil, fmt.Errorf("parent comment: %w", err)
	}
	return s.create(ctx, userID, domain.CreateCommentInput{PostID: parent.PostID, ParentID: &parent.ID, Comment: comment})
}

func (s *commentService) create(ctx context.Context, userID int64, in domain.CreateCommentInput) (*domain.Comment, error) {
	text := strings.TrimSpace(in.Comment)
	if text == "" {
		return nil, fmt.Errorf("%w: comment is required", domain.ErrInvalidInput)
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID, userID); err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	now := time.Now()
	c := &domain.Comment{
		PostID:    in.PostID,
		ParentID:  in.ParentID,
		Comment:   text,
		User:      domain.UserSimplified{ID: userID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.commentRepo.GetByID(ctx, c.ID, userID)
}

func (s *commentService) Update(ctx context.Context, id, userID int64, comment string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	text := strings.TrimSpace(comment)
	if text == "" {
		return fmt.Errorf("%w: comment is required", domain.ErrInvalidInput)
	}
	if err := s.requireAuthor(ctx, id, userID); err != nil {
		return err
	}
	return s.commentRepo.Update(ctx, id, text)
}

func (s *commentService) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireAuthor(ctx, id, userID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, id)
}

func (s *commentService) requireAuthor(ctx context.Context, id, userID int64) error {
	c, err := s.commentRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if c.User.ID != userID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *commentService) ListByPost(ctx context.Context, postID, viewerID int64, order domain.SortOrder, page domain.PageRequest) (domain.PageResult[*domain.Comment], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.postRepo.GetByID(ctx, postID, viewerID); err != nil {
		return domain.PageResult[*domain.Comment]{}, err
	}
	comments, total, err := s.commentRepo.ListByPostID(ctx, postID, viewerID, order, page)
	if err != nil {
		return domain.PageResult[*domain.Comment]{}, fmt.Errorf("failed to list comments: %w", err)
	}
	return domain.PageResult[*domain.Comment]{Data: comments, Total: total}, nil
}

func (s *commentService) ListReplies(ctx context.Context, parentID, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.Comment], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.commentRepo.GetByID(ctx, parentID, viewerID); err != nil {
		return domain.PageResult[*domain.Comment]{}, err
	}
	replies, total, err := s.commentRepo.ListReplies(ctx, parentID, viewerID, page)
	if err != nil {
		return domain.PageResult[*domain.Comment]{}, fmt.Errorf("failed to list replies: %w", err)
	}
	return domain.PageResult[*domain.Comment]{Data: replies, Total: total}, nil
}
