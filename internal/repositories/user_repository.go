package repositories

import (
	"context"

	"accountd/internal/models"
)

// UserRepository defines the interface for user data access.
// Lookups return models.ErrNotFound when no row matches; writes that hit a
// unique index return models.ErrConflict.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]models.User, error)
}
