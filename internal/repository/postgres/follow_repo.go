package postgres

import (
	"context"
	"database/sql"

	"socialhub/internal/domain"
)

type followRepository struct {
	DB *sql.DB
}

// NewFollowRepository returns a domain.FollowRepository implemented with Postgres.
func NewFollowRepository(db *sql.DB) domain.FollowRepository {
	return &followRepository{DB: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)`, followerID, followeeID)
	if _, dup := uniqueConstraint(err); dup {
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	return r.list(ctx, "f.followee_id", "f.follower_id", userID, page)
}

func (r *followRepository) ListFollowers(ctx context.Context, userID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	return r.list(ctx, "f.follower_id", "f.followee_id", userID, page)
}

// list returns the users at column other of the follow rows whose column self is userID.
func (r *followRepository) list(ctx context.Context, other, self string, userID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	from := `
		FROM follows f
		JOIN users u ON u.id = ` + other + `
		WHERE ` + self + ` = $1 AND ` + notBlocked("u.id", "$1")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+from, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.username, u.first_name, u.last_name`+from+` ORDER BY f.created_at DESC LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
