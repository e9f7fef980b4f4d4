package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
)

const conversationPrefix = "conversations/"

// ConversationRepository stores each trip's transcript as JSON lines,
// one message per line, appended in arrival order.
type ConversationRepository struct {
	store portsrepo.Storage
}

var _ portsrepo.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a blob-backed transcript repository.
func NewConversationRepository(store portsrepo.Storage) *ConversationRepository {
	return &ConversationRepository{store: store}
}

func conversationKey(tripName string) string {
	return conversationPrefix + tripName + ".jsonl"
}

func (r *ConversationRepository) AppendMessages(ctx context.Context, tripName string, messages []domain.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	key := conversationKey(tripName)
	existing, err := r.store.Read(ctx, key)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	var b strings.Builder
	b.Write(existing)
	for _, msg := range messages {
		line, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal chat message: %w", err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	if err := r.store.Write(ctx, key, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to append transcript for %s: %w", tripName, err)
	}
	return nil
}

func (r *ConversationRepository) LoadTranscript(ctx context.Context, tripName string) ([]domain.ChatMessage, error) {
	content, err := r.store.Read(ctx, conversationKey(tripName))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var messages []domain.ChatMessage
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript line for %s: %w", tripName, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
