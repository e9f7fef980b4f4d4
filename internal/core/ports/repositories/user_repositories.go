package repositories

import (
	"context"

	"github.com/planloop/trip_planner_app/internal/core/domain"
)

// UserRepository persists user records.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	// FindUserByID returns apperrors.ErrNotFound when absent.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	// FindUserByUsername returns apperrors.ErrNotFound when absent.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
