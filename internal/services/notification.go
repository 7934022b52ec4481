package services

import (
	"context"
	"fmt"
	"time"

	"socialhub/internal/domain"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	now              func() time.Time
	contextTimeout   time.Duration
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notificationRepo domain.NotificationRepository, userRepo domain.UserRepository, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		now:              time.Now,
		contextTimeout:   timeout,
	}
}

func (s *notificationService) List(ctx context.Context, receiverID int64, order domain.SortOrder, page domain.PageRequest) (domain.PageResult[*domain.Notification], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, total, err := s.notificationRepo.ListByReceiverID(ctx, receiverID, order, page)
	if err != nil {
		return domain.PageResult[*domain.Notification]{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return domain.PageResult[*domain.Notification]{Data: items, Total: total}, nil
}

func (s *notificationService) Create(ctx context.Context, senderID int64, in domain.CreateNotificationInput) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	ok, err := s.userRepo.Exists(ctx, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check receiver: %w", err)
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	now := s.now()
	n := &domain.Notification{
		Type:       in.Type,
		Sender:     sender.Simplify(),
		ReceiverID: in.ReceiverID,
		PostID:     in.PostID,
		CommentID:  in.CommentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, receiverID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.notificationRepo.MarkRead(ctx, id, receiverID)
}

func (s *notificationService) Clear(ctx context.Context, receiverID int64, olderThan time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before := s.now().Add(-olderThan)
	n, err := s.notificationRepo.DeleteBefore(ctx, receiverID, before)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return n, nil
}
