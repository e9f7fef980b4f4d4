// Package blob implements the application repositories as JSON
// documents behind the storage port, so the same code runs against
// the filesystem adapter and the PostgreSQL adapter.
package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
)

const userPrefix = "users/"

// UserRepository stores one JSON document per user under users/.
type UserRepository struct {
	store portsrepo.Storage
}

var _ portsrepo.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a blob-backed user repository.
func NewUserRepository(store portsrepo.Storage) *UserRepository {
	return &UserRepository{store: store}
}

func userKey(userID string) string {
	return userPrefix + userID + ".json"
}

func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	content, err := json.Marshal(storedUser(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", user.UserID, err)
	}
	if err := r.store.Write(ctx, userKey(user.UserID), content); err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	content, err := r.store.Read(ctx, userKey(userID))
	if err != nil {
		return nil, err
	}
	return unmarshalUser(content)
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	keys, err := r.store.List(ctx, userPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]domain.User, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		content, err := r.store.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		user, err := unmarshalUser(content)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// persistedUser widens domain.User with the fields json-tagged "-"
// there, which still need to round-trip through storage.
type persistedUser struct {
	domain.User
	PasswordHash           string     `json:"passwordHash,omitempty"`
	GoogleID               string     `json:"googleID,omitempty"`
	RefreshTokenHash       string     `json:"refreshTokenHash,omitempty"`
	RefreshTokenExpiryTime *time.Time `json:"refreshTokenExpiry,omitempty"`
}

func storedUser(user domain.User) persistedUser {
	return persistedUser{
		User:                   user,
		PasswordHash:           user.PasswordHash,
		GoogleID:               user.GoogleID,
		RefreshTokenHash:       user.RefreshTokenHash,
		RefreshTokenExpiryTime: user.RefreshTokenExpiryTime,
	}
}

func unmarshalUser(content []byte) (*domain.User, error) {
	var stored persistedUser
	if err := json.Unmarshal(content, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	user := stored.User
	user.PasswordHash = stored.PasswordHash
	user.GoogleID = stored.GoogleID
	user.RefreshTokenHash = stored.RefreshTokenHash
	user.RefreshTokenExpiryTime = stored.RefreshTokenExpiryTime
	return &user, nil
}
