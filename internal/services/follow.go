package services

import (
	"context"
	"fmt"
	"time"

	"socialhub/internal/domain"
)

type followService struct {
	followRepo     domain.FollowRepository
	blockRepo      domain.BlockRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewFollowService creates a FollowService for the follow graph and user blocks.
func NewFollowService(followRepo domain.FollowRepository, blockRepo domain.BlockRepository, userRepo domain.UserRepository, timeout time.Duration) domain.FollowService {
	return &followService{
		followRepo:     followRepo,
		blockRepo:      blockRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *followService) requireOther(ctx context.Context, selfID, otherID int64, action string) error {
	if selfID == otherID {
		return fmt.Errorf("%w: cannot %s yourself", domain.ErrInvalidInput, action)
	}
	ok, err := s.userRepo.Exists(ctx, otherID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireOther(ctx, followerID, followeeID, "follow"); err != nil {
		return err
	}
	return s.followRepo.Follow(ctx, followerID, followeeID)
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.followRepo.Unfollow(ctx, followerID, followeeID)
}

func (s *followService) ListFollowing(ctx context.Context, userID int64, page domain.PageRequest) (domain.PageResult[*domain.UserSimplified], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, total, err := s.followRepo.ListFollowing(ctx, userID, page)
	if err != nil {
		return domain.PageResult[*domain.UserSimplified]{}, fmt.Errorf("failed to list following: %w", err)
	}
	return domain.PageResult[*domain.UserSimplified]{Data: users, Total: total}, nil
}

func (s *followService) ListFollowers(ctx context.Context, userID int64, page domain.PageRequest) (domain.PageResult[*domain.UserSimplified], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, total, err := s.followRepo.ListFollowers(ctx, userID, page)
	if err != nil {
		return domain.PageResult[*domain.UserSimplified]{}, fmt.Errorf("failed to list followers: %w", err)
	}
	return domain.PageResult[*domain.UserSimplified]{Data: users, Total: total}, nil
}

func (s *followService) Block(ctx context.Context, blockerID, blockedID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireOther(ctx, blockerID, blockedID, "block"); err != nil {
		return err
	}
	return s.blockRepo.Block(ctx, blockerID, blockedID)
}

func (s *followService) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.blockRepo.Unblock(ctx, blockerID, blockedID)
}
