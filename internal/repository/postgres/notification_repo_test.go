package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/domain"
)

func TestNotificationRepository_ListByReceiverID(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	cols := []string{"id", "type", "is_read", "receiver_id", "post_id", "comment_id", "created_at", "updated_at",
		"user_id", "username", "first_name", "last_name"}

	tests := []struct {
		name  string
		order domain.SortOrder
		want  string
	}{
		{name: "latest first", order: domain.OrderLatest, want: `ORDER BY n.created_at DESC, n.id DESC`},
		{name: "oldest first", order: domain.OrderOldest, want: `ORDER BY n.created_at ASC, n.id ASC`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE receiver_id = \$1`).
				WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
			mock.ExpectQuery(tt.want).
				WithArgs(int64(1), 20, 0).
				WillReturnRows(sqlmock.NewRows(cols).
					AddRow(int64(5), "liking_post", false, int64(1), int64(9), nil, now, now, int64(2), "bob", "Bob", ""))

			got, total, err := NewNotificationRepository(db).ListByReceiverID(context.Background(), 1, tt.order, domain.PageRequest{Limit: 20})
			require.NoError(t, err)
			assert.Equal(t, 1, total)
			require.Len(t, got, 1)
			assert.Equal(t, domain.NotificationLikingPost, got[0].Type)
			require.NotNil(t, got[0].PostID)
			assert.Equal(t, int64(9), *got[0].PostID)
			assert.Nil(t, got[0].CommentID)
			assert.Equal(t, "bob", got[0].Sender.Username)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_DeleteBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	before := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM notifications WHERE receiver_id = \$1 AND created_at < \$2`).
		WithArgs(int64(1), before).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewNotificationRepository(db).DeleteBefore(context.Background(), 1, before)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE`).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewNotificationRepository(db).MarkRead(context.Background(), 5, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
