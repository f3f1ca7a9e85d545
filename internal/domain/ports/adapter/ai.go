package adapter

import "context"

// Message is a single chat turn exchanged with the concierge model.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// ConciergeAdapter is the opaque text-generation capability behind the
// dashboard chat widget. Prompt construction happens at the call site; the
// adapter only moves messages to a hosted model and returns its reply.
type ConciergeAdapter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
