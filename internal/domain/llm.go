package domain

import "context"

// MessageRole is the author of a completion message.
type MessageRole string

// Completion message roles.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a single entry of a completion conversation.
type Message struct {
	Role    MessageRole
	Content string
}

// CompletionRequest is the provider-neutral input of a chat completion.
type CompletionRequest struct {
	// Name identifies the calling step in logs, metrics and traces (e.g. "router").
	Name        string
	System      string
	Messages    []Message
	JSON        bool // force a single JSON object reply
	Temperature float32
	MaxTokens   int
}

// Completion is the provider-neutral output of a chat completion.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Completer is the LLM contract shared between layers: prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
