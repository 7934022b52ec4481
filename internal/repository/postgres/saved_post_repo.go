package postgres

import (
	"context"
	"database/sql"

	"socialhub/internal/domain"
)

type savedPostRepository struct {
	DB *sql.DB
}

// NewSavedPostRepository returns a domain.SavedPostRepository implemented with Postgres.
func NewSavedPostRepository(db *sql.DB) domain.SavedPostRepository {
	return &savedPostRepository{DB: db}
}

func (r *savedPostRepository) Save(ctx context.Context, postID, userID int64) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO saved_posts (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if _, dup := uniqueConstraint(err); dup {
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *savedPostRepository) Remove(ctx context.Context, postID, userID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM saved_posts WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *savedPostRepository) IsSaved(ctx context.Context, postID, userID int64) (bool, error) {
	var saved bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM saved_posts WHERE post_id = $1 AND user_id = $2)`, postID, userID).Scan(&saved)
	return saved, err
}
