package classify

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

// Completer runs chat completions.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
}

// Prompts resolves prompt templates by name.
type Prompts interface {
	Get(name string) (prompts.Prompt, error)
}
