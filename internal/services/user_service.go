package services

import (
	"context"
	"fmt"

	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// UserService handles business logic for the user collection.
type UserService struct {
	repo     repositories.UserRepository
	hasher   PasswordHasher
	events   EventPublisher
	validate *validator.Validate
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo repositories.UserRepository, hasher PasswordHasher, events EventPublisher) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		events:   events,
		validate: newValidator(),
	}
}

// Create validates the request, hashes the password and stores a new user.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	return s.create(ctx, req, models.EventUserCreated)
}

func (s *UserService) create(ctx context.Context, req models.CreateUserRequest, eventType string) (*models.User, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	publishUserEvent(ctx, s.events, eventType, user)
	return user, nil
}

// Update applies the fields present in req to user id. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id uint, req models.UserUpdate) (*models.User, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})
	if req.Email.Set {
		changes["email"] = req.Email.Value
	}
	if req.FullName.Set {
		changes["full_name"] = req.FullName.Value
	}
	if req.IsActive.Set {
		changes["is_active"] = req.IsActive.Value
	}
	if req.Password.Set {
		hashed, err := s.hasher.Hash(req.Password.Value)
		if err != nil {
			return nil, err
		}
		changes["hashed_password"] = hashed
	}

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	publishUserEvent(ctx, s.events, models.EventUserUpdated, user)
	return user, nil
}

// Delete removes user id permanently.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publishUserEvent(ctx, s.events, models.EventUserDeleted, user)
	return nil
}

// List returns up to limit users starting at offset, ordered by id.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	fields := models.FieldErrors{}
	if offset < 0 {
		fields["skip"] = "must not be negative"
	}
	if limit < 0 {
		fields["limit"] = "must not be negative"
	}
	if len(fields) > 0 {
		return nil, fields
	}
	if limit == 0 {
		return []models.User{}, nil
	}
	users, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByUsername looks up a user by username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.FindByUsername(ctx, username)
}
