package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/utils"
)

// userService implements UserSvcFacade on top of the user repository.
type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	// Username must be unique across the store.
	existing, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username '%s' is already taken", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	user := domain.User{
		UserID:       newUserID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users in service: %w", err)
	}
	return users, nil
}

// FindOrCreateGoogleUser looks up a user by their Google subject ID,
// falling back to an email match for accounts created before the link,
// and provisions a fresh account when neither exists.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.ID == "" {
		return nil, fmt.Errorf("%w: google user info has no subject ID", apperrors.ErrValidation)
	}

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users for google link: %w", err)
	}

	for i := range users {
		if users[i].GoogleID == info.ID {
			return &users[i], nil
		}
	}

	if info.Email != "" {
		for i := range users {
			if strings.EqualFold(users[i].Email, info.Email) {
				linked := users[i]
				linked.GoogleID = info.ID
				linked.LastUpdatedAt = time.Now()
				linked.LastUpdatedBy = linked.UserID
				if err := s.userRepo.SaveUser(ctx, linked); err != nil {
					return nil, fmt.Errorf("failed to link google account: %w", err)
				}
				return &linked, nil
			}
		}
	}

	now := time.Now()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID:   newUserID,
		Username: googleUsername(info, newUserID),
		Name:     info.Name,
		Email:    info.Email,
		GoogleID: info.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create google user in service: %w", err)
	}

	return &user, nil
}

func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	user.RefreshTokenHash = tokenHash
	user.RefreshTokenExpiryTime = &expiresAt
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to store refresh token hash: %w", err)
	}
	return nil
}

// googleUsername derives a username from the email local part, with
// the user ID as a tiebreaker so collisions cannot occur.
func googleUsername(info domain.GoogleUserInfo, userID string) string {
	local := info.Email
	if at := strings.Index(local, "@"); at > 0 {
		local = local[:at]
	}
	if local == "" {
		local = "google-user"
	}
	return local + "-" + userID[:8]
}
