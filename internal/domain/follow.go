package domain

import "context"

// FollowRepository defines storage for the follow graph.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	ListFollowing(ctx context.Context, userID int64, page PageRequest) ([]*UserSimplified, int, error)
	ListFollowers(ctx context.Context, userID int64, page PageRequest) ([]*UserSimplified, int, error)
}

// BlockRepository defines storage for user blocks.
type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
}

// FollowService defines follow and block operations.
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	ListFollowing(ctx context.Context, userID int64, page PageRequest) (PageResult[*UserSimplified], error)
	ListFollowers(ctx context.Context, userID int64, page PageRequest) (PageResult[*UserSimplified], error)
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
}
