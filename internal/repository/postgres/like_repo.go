package postgres

import (
	"context"
	"database/sql"

	"socialhub/internal/domain"
)

type likeRepository struct {
	DB *sql.DB
}

// NewLikeRepository returns a domain.LikeRepository implemented with Postgres.
func NewLikeRepository(db *sql.DB) domain.LikeRepository {
	return &likeRepository{DB: db}
}

func (r *likeRepository) Like(ctx context.Context, postID, userID int64) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if _, dup := uniqueConstraint(err); dup {
		return domain.ErrAlreadyLiked
	}
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *likeRepository) Unlike(ctx context.Context, postID, userID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *likeRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`, postID, userID).Scan(&liked)
	return liked, err
}

func (r *likeRepository) ListLikers(ctx context.Context, postID, viewerID int64) ([]domain.UserSimplified, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name
		FROM post_likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.post_id = $1 AND ` + notBlocked("u.id", "$2") + `
		ORDER BY l.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, postID, viewerID)
	if err != nil {
		return nil, err
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	likers := make([]domain.UserSimplified, 0, len(users))
	for _, u := range users {
		likers = append(likers, *u)
	}
	return likers, nil
}

func (r *likeRepository) Count(ctx context.Context, postID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}
