package postgres

import (
	"context"
	"database/sql"

	"socialhub/internal/domain"
)

type blockRepository struct {
	DB *sql.DB
}

// NewBlockRepository returns a domain.BlockRepository implemented with Postgres.
func NewBlockRepository(db *sql.DB) domain.BlockRepository {
	return &blockRepository{DB: db}
}

// Block records the block and drops any follow between the two users in one transaction.
func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO blocks (blocker_id, blocked_id) VALUES ($1, $2)`, blockerID, blockedID); err != nil {
		if _, dup := uniqueConstraint(err); dup {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return err
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM follows
		WHERE (follower_id = $1 AND followee_id = $2) OR (follower_id = $2 AND followee_id = $1)`,
		blockerID, blockedID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}
