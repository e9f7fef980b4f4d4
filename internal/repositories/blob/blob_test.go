package blob_test

import (
	"context"
	"testing"
	"time"

	"github.com/planloop/trip_planner_app/internal/adapters/storage/fsstore"
	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	"github.com/planloop/trip_planner_app/internal/repositories/blob"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() portsrepo.Storage {
	return fsstore.New(afero.NewMemMapFs(), "data")
}

func TestUserRepository_RoundTripKeepsHiddenFields(t *testing.T) {
	repo := blob.NewUserRepository(newStore())
	ctx := context.Background()
	expiry := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	user := domain.User{
		UserID:                 "u1",
		Username:               "alice",
		Name:                   "Alice",
		Email:                  "alice@example.com",
		PasswordHash:           "$2a$10$fakehash",
		GoogleID:               "google-sub-1",
		RefreshTokenHash:       "deadbeef",
		RefreshTokenExpiryTime: &expiry,
		IsAdmin:                true,
	}
	require.NoError(t, repo.SaveUser(ctx, user))

	got, err := repo.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)
	assert.Equal(t, "google-sub-1", got.GoogleID)
	assert.Equal(t, "deadbeef", got.RefreshTokenHash)
	require.NotNil(t, got.RefreshTokenExpiryTime)
	assert.True(t, expiry.Equal(*got.RefreshTokenExpiryTime))
	assert.True(t, got.IsAdmin)
}

func TestUserRepository_FindUserByID_Missing(t *testing.T) {
	repo := blob.NewUserRepository(newStore())

	_, err := repo.FindUserByID(context.Background(), "ghost")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_FindUserByUsernameIsCaseInsensitive(t *testing.T) {
	repo := blob.NewUserRepository(newStore())
	ctx := context.Background()
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: "u1", Username: "Alice"}))

	got, err := repo.FindUserByUsername(ctx, "aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = repo.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_ListUsers(t *testing.T) {
	repo := blob.NewUserRepository(newStore())
	ctx := context.Background()
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: "u1", Username: "alice"}))
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: "u2", Username: "bob"}))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	names := []string{users[0].Username, users[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestConversationRepository_AppendAndLoad(t *testing.T) {
	repo := blob.NewConversationRepository(newStore())
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	first := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "add a dinner", Timestamp: now},
		{Role: domain.ChatRoleAssistant, Content: "Done.", Timestamp: now, CommandLine: "add uid=a1 name=Dinner date=2026-04-01"},
	}
	require.NoError(t, repo.AppendMessages(ctx, "kyoto", first))
	require.NoError(t, repo.AppendMessages(ctx, "kyoto", []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "thanks", Timestamp: now},
	}))

	messages, err := repo.LoadTranscript(ctx, "kyoto")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "add a dinner", messages[0].Content)
	assert.Equal(t, "add uid=a1 name=Dinner date=2026-04-01", messages[1].CommandLine)
	assert.Equal(t, "thanks", messages[2].Content)
}

func TestConversationRepository_LoadMissingTranscript(t *testing.T) {
	repo := blob.NewConversationRepository(newStore())

	messages, err := repo.LoadTranscript(context.Background(), "nowhere")

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestConversationRepository_TranscriptsAreIsolatedByTrip(t *testing.T) {
	repo := blob.NewConversationRepository(newStore())
	ctx := context.Background()
	require.NoError(t, repo.AppendMessages(ctx, "kyoto", []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "hi"}}))

	messages, err := repo.LoadTranscript(ctx, "osaka")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestExchangeRateRepository_RoundTrip(t *testing.T) {
	repo := blob.NewExchangeRateRepository(newStore())
	ctx := context.Background()
	sheet := domain.RateSheet{
		Base:      "USD",
		FetchedAt: time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"JPY": decimal.RequireFromString("150.25"),
		},
	}
	require.NoError(t, repo.SaveRateSheet(ctx, sheet))

	got, err := repo.LoadRateSheet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Base)
	assert.True(t, got.Rates["JPY"].Equal(decimal.RequireFromString("150.25")))
	assert.True(t, sheet.FetchedAt.Equal(got.FetchedAt))
}

func TestExchangeRateRepository_LoadBeforeFirstSave(t *testing.T) {
	repo := blob.NewExchangeRateRepository(newStore())

	_, err := repo.LoadRateSheet(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
