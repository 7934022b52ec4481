package postgres

import (
	"context"
	"database/sql"
	"time"

	"socialhub/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

// NewNotificationRepository returns a domain.NotificationRepository implemented with Postgres.
func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (type, is_read, user_id, receiver_id, post_id, comment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		n.Type, n.IsRead, n.Sender.ID, n.ReceiverID, n.PostID, n.CommentID, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *notificationRepository) ListByReceiverID(ctx context.Context, receiverID int64, order domain.SortOrder, page domain.PageRequest) ([]*domain.Notification, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE receiver_id = $1`, receiverID).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if order == domain.OrderOldest {
		dir = "ASC"
	}
	query := `
		SELECT n.id, n.type, n.is_read, n.receiver_id, n.post_id, n.comment_id, n.created_at, n.updated_at,
			u.id, u.username, u.first_name, u.last_name
		FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE n.receiver_id = $1
		ORDER BY n.created_at ` + dir + `, n.id ` + dir + `
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, receiverID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		var postID, commentID sql.NullInt64
		err := rows.Scan(&n.ID, &n.Type, &n.IsRead, &n.ReceiverID, &postID, &commentID, &n.CreatedAt, &n.UpdatedAt,
			&n.Sender.ID, &n.Sender.Username, &n.Sender.FirstName, &n.Sender.LastName)
		if err != nil {
			return nil, 0, err
		}
		if postID.Valid {
			n.PostID = &postID.Int64
		}
		if commentID.Valid {
			n.CommentID = &commentID.Int64
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, receiverID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE id = $1 AND receiver_id = $2`, id, receiverID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *notificationRepository) DeleteBefore(ctx context.Context, receiverID int64, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM notifications WHERE receiver_id = $1 AND created_at < $2`, receiverID, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
