package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"socialhub/internal/domain"
)

type chatRepository struct {
	DB *sql.DB
}

// NewChatRepository returns a domain.ChatRepository implemented with Postgres.
func NewChatRepository(db *sql.DB) domain.ChatRepository {
	return &chatRepository{DB: db}
}

// CreateRoom inserts the room, its creator and the initial participants in one transaction.
func (r *chatRepository) CreateRoom(ctx context.Context, room *domain.ChatRoom, creatorID int64, participants []domain.ParticipantChange) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO chat_rooms (title, description, is_group_chat, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, room.Title, room.Description, room.IsGroupChat, room.CreatedAt, room.UpdatedAt).Scan(&room.ID); err != nil {
		return fmt.Errorf("insert room: %w", err)
	}

	creatorRole := domain.RoleUser
	if room.IsGroupChat {
		creatorRole = domain.RoleCreator
	}
	members := append([]domain.ParticipantChange{{UserID: creatorID, Role: creatorRole}}, participants...)
	for _, m := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_room_participants (chat_room_id, user_id, role) VALUES ($1, $2, $3)`,
			room.ID, m.UserID, m.Role)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUserNotFound
			}
			if _, dup := uniqueConstraint(err); dup {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert participant %d: %w", m.UserID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	room.TotalParticipants = len(members)
	return nil
}

const roomColumns = `
	SELECT r.id, r.title, r.description, r.is_group_chat, r.created_at, r.updated_at,
		(SELECT COUNT(*) FROM chat_room_participants p WHERE p.chat_room_id = r.id)
	FROM chat_rooms r
`

func scanRoom(row rowScanner, extra ...any) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{}
	var title, description sql.NullString
	dest := append([]any{
		&room.ID, &title, &description, &room.IsGroupChat, &room.CreatedAt, &room.UpdatedAt, &room.TotalParticipants,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if title.Valid {
		room.Title = &title.String
	}
	if description.Valid {
		room.Description = &description.String
	}
	return room, nil
}

func (r *chatRepository) GetRoomByID(ctx context.Context, roomID int64) (*domain.ChatRoom, error) {
	room, err := scanRoom(r.DB.QueryRowContext(ctx, roomColumns+` WHERE r.id = $1`, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *chatRepository) FindDirectRoom(ctx context.Context, userID, recipientID int64) (*domain.ChatRoom, error) {
	query := roomColumns + `
		WHERE NOT r.is_group_chat
		  AND EXISTS (SELECT 1 FROM chat_room_participants p WHERE p.chat_room_id = r.id AND p.user_id = $1)
		  AND EXISTS (SELECT 1 FROM chat_room_participants p WHERE p.chat_room_id = r.id AND p.user_id = $2)
		LIMIT 1`
	room, err := scanRoom(r.DB.QueryRowContext(ctx, query, userID, recipientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *chatRepository) ListRoomsByUserID(ctx context.Context, userID int64, page domain.PageRequest) ([]*domain.ChatRoom, int, error) {
	member := ` WHERE EXISTS (SELECT 1 FROM chat_room_participants p WHERE p.chat_room_id = r.id AND p.user_id = $1)`

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_rooms r`+member, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.title, r.description, r.is_group_chat, r.created_at, r.updated_at,
			(SELECT COUNT(*) FROM chat_room_participants p WHERE p.chat_room_id = r.id),
			lm.id, lm.message, lm.created_at, lm.updated_at, lm.author_id, lm.username, lm.first_name, lm.last_name
		FROM chat_rooms r
		LEFT JOIN LATERAL (
			SELECT m.id, m.message, m.created_at, m.updated_at, u.id AS author_id, u.username, u.first_name, u.last_name
			FROM chat_messages m
			JOIN users u ON u.id = m.author_id
			WHERE m.chat_room_id = r.id
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1
		) lm ON TRUE` + member + `
		ORDER BY COALESCE(lm.created_at, r.updated_at) DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []*domain.ChatRoom
	for rows.Next() {
		var msgID, authorID sql.NullInt64
		var msg, username, firstName, lastName sql.NullString
		var createdAt, updatedAt sql.NullTime
		room, err := scanRoom(rows, &msgID, &msg, &createdAt, &updatedAt, &authorID, &username, &firstName, &lastName)
		if err != nil {
			return nil, 0, err
		}
		if msgID.Valid {
			room.LastMessage = &domain.Message{
				ID:      msgID.Int64,
				RoomID:  room.ID,
				Message: msg.String,
				Author: domain.UserSimplified{
					ID: authorID.Int64, Username: username.String, FirstName: firstName.String, LastName: lastName.String,
				},
				CreatedAt: createdAt.Time,
				UpdatedAt: updatedAt.Time,
			}
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *chatRepository) GetParticipant(ctx context.Context, roomID, userID int64) (*domain.Participant, error) {
	query := `
		SELECT p.chat_room_id, p.user_id, u.username, p.role, p.joined_at
		FROM chat_room_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.chat_room_id = $1 AND p.user_id = $2
	`
	p := &domain.Participant{}
	err := r.DB.QueryRowContext(ctx, query, roomID, userID).Scan(&p.RoomID, &p.UserID, &p.Username, &p.Role, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *chatRepository) ListParticipants(ctx context.Context, roomID int64) ([]*domain.Participant, error) {
	return listParticipants(ctx, r.DB, roomID)
}

func listParticipants(ctx context.Context, q queryer, roomID int64) ([]*domain.Participant, error) {
	query := `
		SELECT p.chat_room_id, p.user_id, u.username, p.role, p.joined_at
		FROM chat_room_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.chat_room_id = $1
		ORDER BY p.joined_at, p.user_id
	`
	rows, err := q.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.RoomID, &p.UserID, &p.Username, &p.Role, &p.JoinedAt); err != nil {
			return nil, err
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

// ChangeParticipants holds a row lock on the room for the whole read, decide
// and write cycle, so concurrent batches on one room are serialized.
func (r *chatRepository) ChangeParticipants(ctx context.Context, roomID int64, decide domain.ParticipantDecider) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	room, err := lockRoom(ctx, tx, roomID)
	if err != nil {
		return fmt.Errorf("lock room: %w", err)
	}
	var members []*domain.Participant
	if room != nil {
		if members, err = listParticipants(ctx, tx, roomID); err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		room.TotalParticipants = len(members)
	}

	batch, err := decide(ctx, room, members)
	if err != nil {
		return err
	}
	if err := upsertParticipants(ctx, tx, roomID, batch.Upsert); err != nil {
		return err
	}
	if err := removeParticipants(ctx, tx, roomID, batch.Remove); err != nil {
		return err
	}
	return tx.Commit()
}

// lockRoom returns nil without error when the room does not exist.
func lockRoom(ctx context.Context, tx *sql.Tx, roomID int64) (*domain.ChatRoom, error) {
	query := `
		SELECT id, title, description, is_group_chat, created_at, updated_at
		FROM chat_rooms
		WHERE id = $1
		FOR UPDATE
	`
	room := &domain.ChatRoom{}
	var title, description sql.NullString
	err := tx.QueryRowContext(ctx, query, roomID).
		Scan(&room.ID, &title, &description, &room.IsGroupChat, &room.CreatedAt, &room.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if title.Valid {
		room.Title = &title.String
	}
	if description.Valid {
		room.Description = &description.String
	}
	return room, nil
}

func upsertParticipants(ctx context.Context, tx *sql.Tx, roomID int64, changes []domain.ParticipantChange) error {
	query := `
		INSERT INTO chat_room_participants (chat_room_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_room_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`
	for _, c := range changes {
		if _, err := tx.ExecContext(ctx, query, roomID, c.UserID, c.Role); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("upsert participant %d: %w", c.UserID, err)
		}
	}
	return nil
}

func removeParticipants(ctx context.Context, tx *sql.Tx, roomID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM chat_room_participants WHERE chat_room_id = $1 AND user_id = ANY($2)`,
		roomID, pq.Array(userIDs))
	if err != nil {
		return fmt.Errorf("remove participants: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(userIDs)) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO chat_messages (chat_room_id, author_id, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, msg.RoomID, msg.Author.ID, msg.Message, msg.CreatedAt, msg.UpdatedAt).Scan(&msg.ID)
}

const messageColumns = `
	SELECT m.id, m.chat_room_id, m.message, m.created_at, m.updated_at,
		u.id, u.username, u.first_name, u.last_name
	FROM chat_messages m
	JOIN users u ON u.id = m.author_id
`

func scanMessage(row rowScanner) (*domain.Message, error) {
	m := &domain.Message{}
	err := row.Scan(&m.ID, &m.RoomID, &m.Message, &m.CreatedAt, &m.UpdatedAt,
		&m.Author.ID, &m.Author.Username, &m.Author.FirstName, &m.Author.LastName)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *chatRepository) GetMessageByID(ctx context.Context, messageID int64) (*domain.Message, error) {
	m, err := scanMessage(r.DB.QueryRowContext(ctx, messageColumns+` WHERE m.id = $1`, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *chatRepository) UpdateMessage(ctx context.Context, messageID int64, message string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE chat_messages SET message = $1, updated_at = NOW() WHERE id = $2`, message, messageID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *chatRepository) DeleteMessage(ctx context.Context, messageID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = $1`, messageID)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrNotFound)
}

func (r *chatRepository) ListMessages(ctx context.Context, roomID int64, page domain.PageRequest) ([]*domain.Message, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages WHERE chat_room_id = $1`, roomID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		messageColumns+` WHERE m.chat_room_id = $1 ORDER BY m.created_at DESC, m.id DESC LIMIT $2 OFFSET $3`,
		roomID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
