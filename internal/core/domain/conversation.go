package domain

import "time"

// ChatRole distinguishes who authored a transcript message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one line of a trip's conversation transcript.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// CommandLine is set on assistant messages that produced a
	// journaled command.
	CommandLine string `json:"commandLine,omitempty"`
}
