package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"socialhub/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, first_name, last_name, description, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Description, u.Role, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	return mapUserConflict(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT id, email, username, password_hash, first_name, last_name, description, role, created_at, updated_at
		FROM users
		` + where
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Description, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, first_name = $2, last_name = $3, description = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, u.Username, u.FirstName, u.LastName, u.Description, u.UpdatedAt, u.ID)
	if err != nil {
		return mapUserConflict(err)
	}
	return requireAffected(res, domain.ErrUserNotFound)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrUserNotFound)
}

func (r *userRepository) GetProfile(ctx context.Context, id, viewerID int64) (*domain.UserProfile, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name, u.description, u.created_at,
			(SELECT COUNT(*) FROM follows WHERE followee_id = u.id),
			(SELECT COUNT(*) FROM follows WHERE follower_id = u.id),
			(SELECT COUNT(*) FROM posts WHERE author_id = u.id),
			EXISTS (SELECT 1 FROM follows WHERE follower_id = $2 AND followee_id = u.id)
		FROM users u
		WHERE u.id = $1 AND ` + notBlocked("u.id", "$2")
	p := &domain.UserProfile{}
	err := r.DB.QueryRowContext(ctx, query, id, viewerID).Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.Description, &p.CreatedAt,
		&p.TotalFollowers, &p.TotalFollowing, &p.TotalPosts, &p.IsFollowed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *userRepository) Search(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	where := `
		WHERE u.id <> $2
		  AND (u.username ILIKE '%' || $1 || '%' OR u.first_name ILIKE '%' || $1 || '%' OR u.last_name ILIKE '%' || $1 || '%')
		  AND ` + notBlocked("u.id", "$2")
	switch filter {
	case domain.UserFilterFollowing:
		where += ` AND EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = $2 AND f.followee_id = u.id)`
	case domain.UserFilterFollowers:
		where += ` AND EXISTS (SELECT 1 FROM follows f WHERE f.followee_id = $2 AND f.follower_id = u.id)`
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, query, viewerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.username, u.first_name, u.last_name FROM users u`+where+` ORDER BY u.username LIMIT $3 OFFSET $4`,
		query, viewerID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func mapUserConflict(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	if constraint == "users_username_key" {
		return domain.ErrDuplicateUsername
	}
	return domain.ErrDuplicateEmail
}
