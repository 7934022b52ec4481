package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"socialhub/internal/domain"
)

type resetTokenRepository struct {
	DB *sql.DB
}

// NewResetTokenRepository returns a domain.ResetTokenRepository implemented with Postgres.
func NewResetTokenRepository(db *sql.DB) domain.ResetTokenRepository {
	return &resetTokenRepository{DB: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, tokenHash, userID, expiresAt)
	return err
}

func (r *resetTokenRepository) Consume(ctx context.Context, tokenHash string) (int64, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING user_id
	`
	var userID int64
	if err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrInvalidToken
		}
		return 0, err
	}
	return userID, nil
}
