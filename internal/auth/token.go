package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mesto_service/internal/apperr"
)

var (
	ErrEmptySecret = errors.New("token secret is empty")
	errNoSubject   = errors.New("token has no subject")
)

type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*TokenService)

// WithClock replaces time.Now, used for issuing and for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, ttl time.Duration, opts ...Option) (*TokenService, error) {
	const op = "auth.NewTokenService"

	if secret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%s: non-positive ttl %s", op, ttl)
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *TokenService) Issue(userID string) (string, error) {
	const op = "auth.Issue"

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// Verify returns the user id carried by token. Malformed, tampered and
// expired tokens all fail with the same authentication error.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", apperr.Authentication(apperr.MsgUnauthorized, err)
	}
	if !token.Valid {
		return "", apperr.Authentication(apperr.MsgUnauthorized, jwt.ErrTokenUnverifiable)
	}
	if claims.Subject == "" {
		return "", apperr.Authentication(apperr.MsgUnauthorized, errNoSubject)
	}

	return claims.Subject, nil
}
