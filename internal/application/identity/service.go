package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// DefaultTokenTTL is how long an issued token stays valid
const DefaultTokenTTL = 12 * time.Hour

// Claims is the JWT payload issued at login
type Claims struct {
	UserID        int    `json:"userId"`
	Role          string `json:"role"`
	WorkstationID *int   `json:"workstationId,omitempty"`
	jwt.RegisteredClaims
}

// LoginResult carries the issued token and the identity it encodes
type LoginResult struct {
	Token         string
	ExpiresAt     time.Time
	UserID        int
	Username      string
	Role          identity.Role
	WorkstationID *int
}

// Service authenticates operators and mints signed tokens. Tokens are HMAC
// signed; the secret comes from configuration and is never persisted.
type Service struct {
	users    identity.UserRepository
	clock    shared.Clock
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates the identity service
func NewService(users identity.UserRepository, secret string, tokenTTL time.Duration, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		users:    users,
		clock:    clock,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Login verifies credentials and issues a signed token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		var unauthorized *identity.ErrUnauthorized
		if errors.As(err, &unauthorized) {
			return nil, &identity.ErrUnauthorized{Reason: "invalid credentials"}
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, &identity.ErrUnauthorized{Reason: "invalid credentials"}
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := Claims{
		UserID:        user.ID,
		Role:          string(user.Role),
		WorkstationID: user.WorkstationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		Token:         token,
		ExpiresAt:     expiresAt,
		UserID:        user.ID,
		Username:      user.Username,
		Role:          user.Role,
		WorkstationID: user.WorkstationID,
	}, nil
}

// VerifyToken parses and validates a token, returning its claims
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, &identity.ErrUnauthorized{Reason: "invalid token"}
	}
	if !token.Valid {
		return nil, &identity.ErrUnauthorized{Reason: "invalid token"}
	}
	return claims, nil
}

// Register creates a new operator account (admin only, enforced at the edge)
func (s *Service) Register(ctx context.Context, username, password string, role identity.Role, workstationID *int) (*identity.User, error) {
	user, err := identity.NewUser(username, password, role, workstationID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

// ListUsers returns all operator accounts
func (s *Service) ListUsers(ctx context.Context) ([]*identity.User, error) {
	return s.users.List(ctx)
}
