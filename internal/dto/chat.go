package dto

import "github.com/planloop/trip_planner_app/internal/core/domain"

// ChatRequest sends one user message to the trip assistant.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse carries the assistant's reply and, when the reply
// produced a journaled command, the refreshed snapshot.
type ChatResponse struct {
	Reply       string        `json:"reply"`
	CommandLine string        `json:"commandLine,omitempty"`
	Applied     bool          `json:"applied"`
	Trip        *TripResponse `json:"trip,omitempty"`
}

// TranscriptResponse returns a trip's stored conversation.
type TranscriptResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}
