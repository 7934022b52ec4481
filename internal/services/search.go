package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"socialhub/internal/domain"
)

type searchService struct {
	userRepo       domain.UserRepository
	postRepo       domain.PostRepository
	contextTimeout time.Duration
}

// NewSearchService creates a SearchService over users and posts.
func NewSearchService(userRepo domain.UserRepository, postRepo domain.PostRepository, timeout time.Duration) domain.SearchService {
	return &searchService{userRepo: userRepo, postRepo: postRepo, contextTimeout: timeout}
}

func (s *searchService) SearchUsers(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.UserSimplified], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.searchUsers(ctx, query, filter, viewerID, page)
}

func (s *searchService) searchUsers(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.UserSimplified], error) {
	users, total, err := s.userRepo.Search(ctx, strings.TrimSpace(query), filter, viewerID, page)
	if err != nil {
		return domain.PageResult[*domain.UserSimplified]{}, fmt.Errorf("failed to search users: %w", err)
	}
	if users == nil {
		users = []*domain.UserSimplified{}
	}
	return domain.PageResult[*domain.UserSimplified]{Data: users, Total: total}, nil
}

func (s *searchService) SearchPosts(ctx context.Context, query string, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.Post], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.searchPosts(ctx, query, viewerID, page)
}

func (s *searchService) searchPosts(ctx context.Context, query string, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.Post], error) {
	posts, total, err := s.postRepo.List(ctx, domain.PostFilter{Query: strings.TrimSpace(query)}, viewerID, page)
	if err != nil {
		return domain.PageResult[*domain.Post]{}, fmt.Errorf("failed to search posts: %w", err)
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return domain.PageResult[*domain.Post]{Data: posts, Total: total}, nil
}

// SearchAll runs the user and post searches concurrently with the same page window.
func (s *searchService) SearchAll(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) (domain.SearchAll, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var out domain.SearchAll
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.searchUsers(gctx, query, filter, viewerID, page)
		out.Users = users
		return err
	})
	g.Go(func() error {
		posts, err := s.searchPosts(gctx, query, viewerID, page)
		out.Posts = posts
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SearchAll{}, err
	}
	return out, nil
}
