package services

import (
	"context"

	"github.com/planloop/trip_planner_app/internal/core/domain"
	"github.com/planloop/trip_planner_app/internal/dto"
)

// ChatSvcFacade turns natural-language messages into journaled
// commands and keeps the per-trip transcript.
type ChatSvcFacade interface {
	SendMessage(ctx context.Context, tripName, message string) (*dto.ChatResponse, error)
	GetTranscript(ctx context.Context, tripName string) ([]domain.ChatMessage, error)
}
