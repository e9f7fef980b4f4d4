package repositories

import (
	"context"

	"github.com/planloop/trip_planner_app/internal/core/domain"
)

// ConversationRepository persists per-trip chat transcripts.
type ConversationRepository interface {
	AppendMessages(ctx context.Context, tripName string, messages []domain.ChatMessage) error
	LoadTranscript(ctx context.Context, tripName string) ([]domain.ChatMessage, error)
}
