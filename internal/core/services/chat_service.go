package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	openai "github.com/sashabaranov/go-openai"
)

// commandPrefix marks assistant reply lines that should be journaled.
const commandPrefix = "COMMAND:"

// historyLimit bounds how many stored transcript messages are replayed
// into each completion request.
const historyLimit = 20

const systemPrompt = `You are a trip planning assistant. You manage an itinerary through a small command language. When the user asks for a change, put the command on the FIRST line of your reply, prefixed with "COMMAND: ", then explain what you did in plain language on the following lines. When no change is needed, just answer normally.

Available commands (values with spaces must be double-quoted):
  add uid=<id> name=<text> date=<YYYY-MM-DD> [time=<HH:MM>] [status=<planned|booked|completed|cancelled>] [price=<amount>] [currency=<code>] [notes=<text>]
  edit uid=<id> <key>=<value>...
  delete uid=<id>
  movedate from=<YYYY-MM-DD> to=<YYYY-MM-DD>
  insertday after=<YYYY-MM-DD>
  removeday at=<YYYY-MM-DD>
  country <name>
  undo [n]
  redo [n]

Emit at most one command per reply. Never invent uids when editing; use the ones from the itinerary below.`

// chatCompleter is the slice of the OpenAI client the service needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// chatService bridges the conversation transcript, the language model
// and the trip journal.
type chatService struct {
	client           chatCompleter
	model            string
	tripService      portssvc.TripSvcFacade
	conversationRepo portsrepo.ConversationRepository
}

// NewChatService creates a new chat service backed by the OpenAI API.
func NewChatService(apiKey, model string, tripService portssvc.TripSvcFacade, conversationRepo portsrepo.ConversationRepository) portssvc.ChatSvcFacade {
	return &chatService{
		client:           openai.NewClient(apiKey),
		model:            model,
		tripService:      tripService,
		conversationRepo: conversationRepo,
	}
}

func (s *chatService) SendMessage(ctx context.Context, tripName, message string) (*dto.ChatResponse, error) {
	trip, err := s.tripService.Rebuild(ctx, tripName)
	if err != nil {
		return nil, err
	}

	history, err := s.conversationRepo.LoadTranscript(ctx, tripName)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	req := openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: s.buildMessages(trip, history, message),
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	commandLine, remainder := extractCommandLine(reply)

	out := &dto.ChatResponse{Reply: reply}

	if commandLine != "" {
		updated, applyErr := s.tripService.AppendCommand(ctx, tripName, commandLine)
		if applyErr != nil {
			// Keep the assistant text but tell the caller the command
			// did not land.
			out.Reply = remainder + "\n\n(The suggested change could not be applied: " + applyErr.Error() + ")"
		} else {
			out.Reply = remainder
			out.CommandLine = commandLine
			out.Applied = true
			tripResp := dto.ToTripResponse(updated)
			out.Trip = &tripResp
		}
	}

	now := time.Now()
	entries := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: message, Timestamp: now},
		{Role: domain.ChatRoleAssistant, Content: out.Reply, Timestamp: now, CommandLine: out.CommandLine},
	}
	if err := s.conversationRepo.AppendMessages(ctx, tripName, entries); err != nil {
		return nil, fmt.Errorf("failed to persist transcript: %w", err)
	}

	return out, nil
}

func (s *chatService) GetTranscript(ctx context.Context, tripName string) ([]domain.ChatMessage, error) {
	messages, err := s.conversationRepo.LoadTranscript(ctx, tripName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.ChatMessage{}, nil
		}
		return nil, err
	}
	return messages, nil
}

func (s *chatService) buildMessages(trip *domain.Trip, history []domain.ChatMessage, message string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: itinerarySummary(trip),
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
	return messages
}

// itinerarySummary renders the current snapshot so the model can refer
// to real uids and dates.
func itinerarySummary(trip *domain.Trip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current itinerary for trip %q:\n", trip.Name)
	if len(trip.Activities) == 0 {
		b.WriteString("  (no activities yet)\n")
	}
	for _, a := range trip.Activities {
		fmt.Fprintf(&b, "  uid=%s name=%q date=%s", a.UID, a.Name, a.Date)
		if a.Time != "" {
			fmt.Fprintf(&b, " time=%s", a.Time)
		}
		if a.Status != "" {
			fmt.Fprintf(&b, " status=%s", a.Status)
		}
		if !a.Price.IsZero() {
			fmt.Fprintf(&b, " price=%s %s", a.Price.String(), a.Currency)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// extractCommandLine splits a "COMMAND: ..." first line from the rest
// of the reply. Returns ("", reply) when there is none.
func extractCommandLine(reply string) (string, string) {
	first, rest, found := strings.Cut(reply, "\n")
	if !strings.HasPrefix(first, commandPrefix) {
		return "", reply
	}
	commandLine := strings.TrimSpace(strings.TrimPrefix(first, commandPrefix))
	if commandLine == "" {
		return "", reply
	}
	if !found {
		rest = ""
	}
	return commandLine, strings.TrimSpace(rest)
}
