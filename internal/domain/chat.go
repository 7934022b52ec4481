package domain

import (
	"context"
	"time"
)

// ChatRoom is a conversation between users. Direct conversations have exactly
// two participants and no title.
// swagger:model ChatRoom
type ChatRoom struct {
	ID                int64          `json:"id"`
	Title             *string        `json:"title"`
	Description       *string        `json:"description"`
	IsGroupChat       bool           `json:"is_group_chat"`
	Participants      []*Participant `json:"participants,omitempty"`
	TotalParticipants int            `json:"total_participants"`
	LastMessage       *Message       `json:"last_message,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Participant is a user's membership in a chat room.
// swagger:model Participant
type Participant struct {
	RoomID   int64           `json:"room_id"`
	UserID   int64           `json:"user_id"`
	Username string          `json:"username,omitempty"`
	Role     ParticipantRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// Message is a single chat message.
// swagger:model Message
type Message struct {
	ID        int64          `json:"id"`
	RoomID    int64          `json:"room_id"`
	Message   string         `json:"message"`
	Author    UserSimplified `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ParticipantBatch is the set of membership writes decided for one room.
type ParticipantBatch struct {
	Upsert []ParticipantChange
	Remove []int64
}

// ParticipantDecider chooses the membership writes for a room from a snapshot
// taken under the room lock.
type ParticipantDecider func(ctx context.Context, room *ChatRoom, members []*Participant) (ParticipantBatch, error)

// ChatRepository defines storage for rooms, participants and messages.
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *ChatRoom, creatorID int64, participants []ParticipantChange) error
	GetRoomByID(ctx context.Context, roomID int64) (*ChatRoom, error)
	FindDirectRoom(ctx context.Context, userID, recipientID int64) (*ChatRoom, error)
	ListRoomsByUserID(ctx context.Context, userID int64, page PageRequest) ([]*ChatRoom, int, error)

	GetParticipant(ctx context.Context, roomID, userID int64) (*Participant, error)
	ListParticipants(ctx context.Context, roomID int64) ([]*Participant, error)
	// ChangeParticipants locks room roomID, reads its members and passes both
	// to decide, then applies the returned batch before committing. room is nil
	// when the room does not exist. An error from decide rolls back and is
	// returned as is.
	ChangeParticipants(ctx context.Context, roomID int64, decide ParticipantDecider) error

	CreateMessage(ctx context.Context, msg *Message) error
	GetMessageByID(ctx context.Context, messageID int64) (*Message, error)
	UpdateMessage(ctx context.Context, messageID int64, message string) error
	DeleteMessage(ctx context.Context, messageID int64) error
	ListMessages(ctx context.Context, roomID int64, page PageRequest) ([]*Message, int, error)
}

// CreateGroupRoomInput holds the fields of a new group chat room.
type CreateGroupRoomInput struct {
	Title        string
	Description  *string
	Participants []ParticipantChange
}

// ChatService defines direct and group chat operations.
type ChatService interface {
	SendDirectMessage(ctx context.Context, senderID, recipientID int64, message string) (*Message, error)
	ListDirectMessages(ctx context.Context, userID, recipientID int64, page PageRequest) (PageResult[*Message], error)
	UpdateMessage(ctx context.Context, messageID, userID int64, message string) error
	DeleteMessage(ctx context.Context, messageID, userID int64) error
	ListMyRooms(ctx context.Context, userID int64, page PageRequest) (PageResult[*ChatRoom], error)

	CreateGroupRoom(ctx context.Context, creatorID int64, in CreateGroupRoomInput) (*ChatRoom, error)
	GetRoom(ctx context.Context, roomID, userID int64) (*ChatRoom, error)
	ListRoomMessages(ctx context.Context, roomID, userID int64, page PageRequest) (PageResult[*Message], error)
	SendRoomMessage(ctx context.Context, roomID, userID int64, message string) (*Message, error)
	AddParticipants(ctx context.Context, roomID, actorID int64, changes []ParticipantChange) error
	UpdateParticipants(ctx context.Context, roomID, actorID int64, changes []ParticipantChange) error
	RemoveParticipants(ctx context.Context, roomID, actorID int64, userIDs []int64) error
	LeaveRoom(ctx context.Context, roomID, userID int64) error
}
