package services

import (
	"context"
	"errors"
	"fmt"

	"accountd/internal/models"
)

// dummyPassword is hashed once so logins for unknown usernames still pay for
// one bcrypt comparison.
const dummyPassword = "accountd-timing-equaliser"

// AuthService handles registration, login and bearer token authentication.
type AuthService struct {
	users     *UserService
	tokens    *TokenService
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, tokens *TokenService) (*AuthService, error) {
	dummyHash, err := users.hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare auth service: %w", err)
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		dummyHash: dummyHash,
	}, nil
}

// Register creates an account and returns a token for it. A taken username or
// email surfaces as models.ErrConflict from the store.
func (s *AuthService) Register(ctx context.Context, req models.CreateUserRequest) (string, error) {
	req.IsActive = nil
	user, err := s.users.create(ctx, req, models.EventUserRegistered)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Username)
}

// Login checks credentials and returns a token. Unknown usernames and wrong
// passwords both yield exactly models.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := validateStruct(s.users.validate, req); err != nil {
		return "", err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("login lookup: %w", err)
		}
		s.users.hasher.Verify(req.Password, s.dummyHash)
		return "", models.ErrUnauthorized
	}

	if !s.users.hasher.Verify(req.Password, user.HashedPassword) {
		return "", models.ErrUnauthorized
	}
	return s.tokens.Issue(user.Username)
}

// Authenticate resolves a bearer token to a live user. An invalid token or a
// subject that no longer exists is models.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	subject, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}
