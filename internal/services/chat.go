package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"socialhub/internal/domain"
)

type chatService struct {
	chatRepo       domain.ChatRepository
	userRepo       domain.UserRepository
	authorizer     *ParticipantAuthorizer
	contextTimeout time.Duration
}

// NewChatService creates a ChatService for direct and group conversations.
func NewChatService(chatRepo domain.ChatRepository, userRepo domain.UserRepository, authorizer *ParticipantAuthorizer, timeout time.Duration) domain.ChatService {
	return &chatService{
		chatRepo:       chatRepo,
		userRepo:       userRepo,
		authorizer:     authorizer,
		contextTimeout: timeout,
	}
}

func validMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	return message, nil
}

func (s *chatService) SendDirectMessage(ctx context.Context, senderID, recipientID int64, message string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	message, err := validMessage(message)
	if err != nil {
		return nil, err
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot message yourself", domain.ErrInvalidInput)
	}
	ok, err := s.userRepo.Exists(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	room, err := s.chatRepo.FindDirectRoom(ctx, senderID, recipientID)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now()
		room = &domain.ChatRoom{CreatedAt: now, UpdatedAt: now}
		err = s.chatRepo.CreateRoom(ctx, room, senderID, []domain.ParticipantChange{{UserID: recipientID, Role: domain.RoleUser}})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve direct room: %w", err)
	}
	return s.createMessage(ctx, room.ID, senderID, message)
}

func (s *chatService) createMessage(ctx context.Context, roomID, authorID int64, message string) (*domain.Message, error) {
	now := time.Now()
	msg := &domain.Message{
		RoomID:    roomID,
		Message:   message,
		Author:    domain.UserSimplified{ID: authorID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return s.chatRepo.GetMessageByID(ctx, msg.ID)
}

func (s *chatService) ListDirectMessages(ctx context.Context, userID, recipientID int64, page domain.PageRequest) (domain.PageResult[*domain.Message], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	room, err := s.chatRepo.FindDirectRoom(ctx, userID, recipientID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.PageResult[*domain.Message]{Data: []*domain.Message{}}, nil
	}
	if err != nil {
		return domain.PageResult[*domain.Message]{}, fmt.Errorf("failed to find direct room: %w", err)
	}
	return s.listMessages(ctx, room.ID, page)
}

func (s *chatService) listMessages(ctx context.Context, roomID int64, page domain.PageRequest) (domain.PageResult[*domain.Message], error) {
	messages, total, err := s.chatRepo.ListMessages(ctx, roomID, page)
	if err != nil {
		return domain.PageResult[*domain.Message]{}, fmt.Errorf("failed to list messages: %w", err)
	}
	return domain.PageResult[*domain.Message]{Data: messages, Total: total}, nil
}

func (s *chatService) UpdateMessage(ctx context.Context, messageID, userID int64, message string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	message, err := validMessage(message)
	if err != nil {
		return err
	}
	if err := s.requireMessageAuthor(ctx, messageID, userID); err != nil {
		return err
	}
	return s.chatRepo.UpdateMessage(ctx, messageID, message)
}

func (s *chatService) DeleteMessage(ctx context.Context, messageID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireMessageAuthor(ctx, messageID, userID); err != nil {
		return err
	}
	return s.chatRepo.DeleteMessage(ctx, messageID)
}

func (s *chatService) requireMessageAuthor(ctx context.Context, messageID, userID int64) error {
	msg, err := s.chatRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.Author.ID != userID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *chatService) ListMyRooms(ctx context.Context, userID int64, page domain.PageRequest) (domain.PageResult[*domain.ChatRoom], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rooms, total, err := s.chatRepo.ListRoomsByUserID(ctx, userID, page)
	if err != nil {
		return domain.PageResult[*domain.ChatRoom]{}, fmt.Errorf("failed to list rooms: %w", err)
	}
	return domain.PageResult[*domain.ChatRoom]{Data: rooms, Total: total}, nil
}

func (s *chatService) CreateGroupRoom(ctx context.Context, creatorID int64, in domain.CreateGroupRoomInput) (*domain.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	participants := lo.UniqBy(
		lo.Reject(in.Participants, func(c domain.ParticipantChange, _ int) bool { return c.UserID == creatorID }),
		func(c domain.ParticipantChange) int64 { return c.UserID },
	)
	if err := validateAssignableRoles(participants); err != nil {
		return nil, err
	}
	if err := s.authorizer.AuthorizeNewRoom(ctx, participants); err != nil {
		return nil, err
	}

	now := time.Now()
	room := &domain.ChatRoom{
		Title:       &title,
		Description: trimmedOrNil(in.Description),
		IsGroupChat: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.chatRepo.CreateRoom(ctx, room, creatorID, participants); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return s.roomWithParticipants(ctx, room.ID)
}

func (s *chatService) roomWithParticipants(ctx context.Context, roomID int64) (*domain.ChatRoom, error) {
	room, err := s.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	participants, err := s.chatRepo.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	room.Participants = participants
	room.TotalParticipants = len(participants)
	return room, nil
}

// membership returns the caller's participant record, mapping non-members to ErrForbidden.
func (s *chatService) membership(ctx context.Context, roomID, userID int64) (*domain.Participant, error) {
	if _, err := s.chatRepo.GetRoomByID(ctx, roomID); err != nil {
		return nil, err
	}
	p, err := s.chatRepo.GetParticipant(ctx, roomID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: not a participant of room %d", domain.ErrForbidden, roomID)
	}
	return p, err
}

func (s *chatService) GetRoom(ctx context.Context, roomID, userID int64) (*domain.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.membership(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.roomWithParticipants(ctx, roomID)
}

func (s *chatService) ListRoomMessages(ctx context.Context, roomID, userID int64, page domain.PageRequest) (domain.PageResult[*domain.Message], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.membership(ctx, roomID, userID); err != nil {
		return domain.PageResult[*domain.Message]{}, err
	}
	return s.listMessages(ctx, roomID, page)
}

func (s *chatService) SendRoomMessage(ctx context.Context, roomID, userID int64, message string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	message, err := validMessage(message)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.createMessage(ctx, roomID, userID, message)
}

// ErrGroupChatNotFound is returned when a participant batch targets a missing or direct room.
var ErrGroupChatNotFound = fmt.Errorf("group chat not found: %w", domain.ErrNotFound)

func (s *chatService) AddParticipants(ctx context.Context, roomID, actorID int64, changes []domain.ParticipantChange) error {
	return s.upsertParticipants(ctx, roomID, actorID, changes)
}

func (s *chatService) UpdateParticipants(ctx context.Context, roomID, actorID int64, changes []domain.ParticipantChange) error {
	return s.upsertParticipants(ctx, roomID, actorID, changes)
}

func (s *chatService) upsertParticipants(ctx context.Context, roomID, actorID int64, changes []domain.ParticipantChange) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(changes) == 0 {
		return fmt.Errorf("%w: participants are required", domain.ErrInvalidInput)
	}
	if err := validateAssignableRoles(changes); err != nil {
		return err
	}
	return s.changeParticipants(ctx, roomID, actorID, changes, false)
}

func (s *chatService) RemoveParticipants(ctx context.Context, roomID, actorID int64, userIDs []int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userIDs = lo.Uniq(userIDs)
	if len(userIDs) == 0 {
		return fmt.Errorf("%w: ids are required", domain.ErrInvalidInput)
	}
	changes := lo.Map(userIDs, func(id int64, _ int) domain.ParticipantChange {
		return domain.ParticipantChange{UserID: id}
	})
	return s.changeParticipants(ctx, roomID, actorID, changes, true)
}

// changeParticipants authorizes and applies a batch under the room lock.
func (s *chatService) changeParticipants(ctx context.Context, roomID, actorID int64, changes []domain.ParticipantChange, isDeleting bool) error {
	return s.chatRepo.ChangeParticipants(ctx, roomID, func(ctx context.Context, room *domain.ChatRoom, members []*domain.Participant) (domain.ParticipantBatch, error) {
		if room == nil || !room.IsGroupChat {
			return domain.ParticipantBatch{}, ErrGroupChatNotFound
		}
		acting, err := managerRole(roomID, members, actorID)
		if err != nil {
			return domain.ParticipantBatch{}, err
		}
		if err := s.authorizer.Authorize(ctx, roomID, members, changes, acting, isDeleting); err != nil {
			return domain.ParticipantBatch{}, err
		}
		if isDeleting {
			return domain.ParticipantBatch{Remove: lo.Map(changes, func(c domain.ParticipantChange, _ int) int64 { return c.UserID })}, nil
		}
		return domain.ParticipantBatch{Upsert: changes}, nil
	})
}

func findMember(members []*domain.Participant, userID int64) *domain.Participant {
	m, _ := lo.Find(members, func(p *domain.Participant) bool { return p.UserID == userID })
	return m
}

// managerRole returns the actor's role when it may manage participants of the room.
func managerRole(roomID int64, members []*domain.Participant, actorID int64) (domain.ParticipantRole, error) {
	p := findMember(members, actorID)
	if p == nil {
		return "", fmt.Errorf("%w: not a participant of room %d", domain.ErrForbidden, roomID)
	}
	if !p.Role.CanManage() {
		return "", fmt.Errorf("%w: role %s cannot manage participants", domain.ErrForbidden, p.Role)
	}
	return p.Role, nil
}

func (s *chatService) LeaveRoom(ctx context.Context, roomID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.chatRepo.ChangeParticipants(ctx, roomID, func(ctx context.Context, room *domain.ChatRoom, members []*domain.Participant) (domain.ParticipantBatch, error) {
		if room == nil {
			return domain.ParticipantBatch{}, domain.ErrNotFound
		}
		p := findMember(members, userID)
		if p == nil {
			return domain.ParticipantBatch{}, fmt.Errorf("%w: not a participant of room %d", domain.ErrForbidden, roomID)
		}
		if p.Role == domain.RoleCreator {
			return domain.ParticipantBatch{}, fmt.Errorf("%w: the creator cannot leave the group", domain.ErrForbidden)
		}
		return domain.ParticipantBatch{Remove: []int64{userID}}, nil
	})
}

// validateAssignableRoles rejects roles other than admin and user; the creator role is never assigned.
func validateAssignableRoles(changes []domain.ParticipantChange) error {
	for _, c := range changes {
		if c.Role != domain.RoleAdmin && c.Role != domain.RoleUser {
			return fmt.Errorf("%w: role of user %d must be one of: admin, user", domain.ErrInvalidInput, c.UserID)
		}
	}
	return nil
}
