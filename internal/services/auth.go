package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"socialhub/internal/domain"
)

const (
	minPasswordLen   = 8
	resetTokenBytes  = 32
	resetTokenExpiry = time.Hour
	tokenTypeBearer  = "Bearer"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	resetRepo      domain.ResetTokenRepository
	hasher         domain.PasswordHasher
	tokens         domain.TokenManager
	emailService   domain.EmailService
	clientURL      string
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService. clientURL is the web client origin used in reset links.
func NewAuthService(
	userRepo domain.UserRepository,
	resetRepo domain.ResetTokenRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenManager,
	emailService domain.EmailService,
	clientURL string,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		resetRepo:      resetRepo,
		hasher:         hasher,
		tokens:         tokens,
		emailService:   emailService,
		clientURL:      strings.TrimRight(clientURL, "/"),
		contextTimeout: timeout,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email := normalizeEmail(in.Email)
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now()
	user := domain.NewUser(email, username, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), now, now)
	user.PasswordHash = hash
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userID, err := s.tokens.Verify(refreshToken, domain.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.issuePair(user)
}

func (s *authService) issuePair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.tokens.Issue(user.ID, user.Email, domain.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.Issue(user.ID, user.Email, domain.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: tokenTypeBearer}, nil
}

// ForgotPassword mails a reset link when the account exists and reports success either way.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.resetRepo.Create(ctx, user.ID, hashResetToken(token), time.Now().Add(resetTokenExpiry)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return s.emailService.SendPasswordReset(ctx, &domain.PasswordResetEmailData{
		Email:            user.Email,
		Username:         user.Username,
		ResetURL:         s.clientURL + "/reset-password/" + token,
		ExpiresInMinutes: int(resetTokenExpiry / time.Minute),
	})
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validatePassword(password); err != nil {
		return err
	}
	userID, err := s.resetRepo.Consume(ctx, hashResetToken(strings.TrimSpace(token)))
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
