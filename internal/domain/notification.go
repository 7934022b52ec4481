package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// NotificationType is the event a notification reports.
type NotificationType string

const (
	NotificationLikingPost      NotificationType = "liking_post"
	NotificationComment         NotificationType = "comment"
	NotificationReplyingComment NotificationType = "replying_comment"
	NotificationLikingComment   NotificationType = "liking_comment"
	NotificationFollow          NotificationType = "follow"
)

// Notification is addressed to ReceiverID and caused by Sender.
// swagger:model Notification
type Notification struct {
	ID         int64            `json:"id"`
	Type       NotificationType `json:"type"`
	IsRead     bool             `json:"is_read"`
	Sender     UserSimplified   `json:"user"`
	ReceiverID int64            `json:"receiver_id"`
	PostID     *int64           `json:"post_id"`
	CommentID  *int64           `json:"comment_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateNotificationInput holds the fields of a new notification.
type CreateNotificationInput struct {
	Type       NotificationType
	ReceiverID int64
	PostID     *int64
	CommentID  *int64
}

// Validate checks the fields each notification type requires.
func (in CreateNotificationInput) Validate() error {
	switch in.Type {
	case NotificationComment, NotificationReplyingComment:
		if in.PostID == nil {
			return NewValidationError("post_id", "post_id is required for comment and replying_comment notification type")
		}
	case NotificationLikingPost:
		if in.PostID == nil {
			return NewValidationError("post_id", "post_id is required for liking_post notification type")
		}
	case NotificationLikingComment:
		if in.CommentID == nil {
			return NewValidationError("comment_id", "comment_id is required for liking_comment notification type")
		}
	case NotificationFollow:
	default:
		return NewValidationError("type", "unknown notification type %q", in.Type)
	}
	return nil
}

// ParseRetention parses the before_timestamp query value: a number of
// milliseconds, or a number followed by h (hours), d (days) or y (years).
func ParseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond, nil
	}
	if len(s) < 2 {
		return 0, retentionError()
	}
	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || n < 0 {
		return 0, retentionError()
	}
	switch s[len(s)-1] {
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'y':
		return time.Duration(n) * 365 * 24 * time.Hour, nil
	}
	return 0, retentionError()
}

func retentionError() error {
	return NewValidationError("before_timestamp",
		"must be a number of ms or a number followed by: h (hours), d (day), y (year). example value: 1h, 2d, 1y, 60000")
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByReceiverID(ctx context.Context, receiverID int64, order SortOrder, page PageRequest) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, receiverID int64) error
	DeleteBefore(ctx context.Context, receiverID int64, before time.Time) (int64, error)
}

// NotificationService defines notification operations.
type NotificationService interface {
	List(ctx context.Context, receiverID int64, order SortOrder, page PageRequest) (PageResult[*Notification], error)
	Create(ctx context.Context, senderID int64, in CreateNotificationInput) (*Notification, error)
	MarkRead(ctx context.Context, id, receiverID int64) error
	// Clear deletes the receiver's notifications older than olderThan; zero clears all.
	Clear(ctx context.Context, receiverID int64, olderThan time.Duration) (int64, error)
}
