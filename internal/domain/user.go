package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user and auth operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// User represents a registered account
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Description  string    `json:"description"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, username, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Role:      "user",
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Simplify returns the public subset of u embedded in posts, comments and messages.
func (u *User) Simplify() UserSimplified {
	return UserSimplified{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

// UserSimplified is the author/actor view of a user.
// swagger:model UserSimplified
type UserSimplified struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProfile is the public profile of a user as seen by another user.
// swagger:model UserProfile
type UserProfile struct {
	UserSimplified
	Description    string    `json:"description"`
	TotalFollowers int       `json:"total_followers"`
	TotalFollowing int       `json:"total_following"`
	TotalPosts     int       `json:"total_posts"`
	IsFollowed     bool      `json:"is_followed"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserSearchFilter narrows a user search to the viewer's connections.
type UserSearchFilter string

const (
	UserFilterNone      UserSearchFilter = ""
	UserFilterFollowing UserSearchFilter = "following"
	UserFilterFollowers UserSearchFilter = "followers"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenManager issues and verifies signed tokens.
type TokenManager interface {
	Issue(userID int64, email string, kind TokenKind) (string, error)
	Verify(token string, kind TokenKind) (userID int64, err error)
}

// TokenPair is returned on login.
// swagger:model TokenPair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	GetProfile(ctx context.Context, id, viewerID int64) (*UserProfile, error)
	Search(ctx context.Context, query string, filter UserSearchFilter, viewerID int64, page PageRequest) ([]*UserSimplified, int, error)
}

// ResetTokenRepository stores hashed one-time password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// Consume deletes the token and returns its owner. ErrInvalidToken when missing or expired.
	Consume(ctx context.Context, tokenHash string) (int64, error)
}

// SignUpInput holds the fields of a new account.
type SignUpInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UpdateAccountInput holds optional profile changes; nil fields are unchanged.
type UpdateAccountInput struct {
	Username    *string
	FirstName   *string
	LastName    *string
	Description *string
}

// AuthService defines sign up, login and password recovery.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// UserService defines account and profile operations.
type UserService interface {
	GetAccount(ctx context.Context, id int64) (*User, error)
	UpdateAccount(ctx context.Context, id int64, in UpdateAccountInput) (*User, error)
	GetProfile(ctx context.Context, id, viewerID int64) (*UserProfile, error)
}
