package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"socialhub/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string           `json:"email"`
	Kind  domain.TokenKind `json:"kind"`
}

type jwtManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewJWTManager returns a TokenManager that signs HS256 JWTs. Access and
// refresh tokens use separate secrets so one can never stand in for the other.
func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) domain.TokenManager {
	return &jwtManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (m *jwtManager) keyFor(kind domain.TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case domain.AccessToken:
		return m.accessSecret, m.accessTTL, nil
	case domain.RefreshToken:
		return m.refreshSecret, m.refreshTTL, nil
	}
	return nil, 0, fmt.Errorf("unknown token kind %q", kind)
}

func (m *jwtManager) Issue(userID int64, email string, kind domain.TokenKind) (string, error) {
	secret, ttl, err := m.keyFor(kind)
	if err != nil {
		return "", err
	}
	now := m.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Kind:  kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (m *jwtManager) Verify(tokenString string, kind domain.TokenKind) (int64, error) {
	secret, _, err := m.keyFor(kind)
	if err != nil {
		return 0, err
	}
	claims := &jwtClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Kind != kind {
		return 0, domain.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}
