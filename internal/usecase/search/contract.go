package search

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

// Index runs similarity queries.
type Index interface {
	Search(ctx context.Context, q vector.Query) ([]vector.Hit, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Completer runs chat completions.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
}

// Prompts resolves prompt templates by name.
type Prompts interface {
	Get(name string) (prompts.Prompt, error)
}

// ResumeReader reads resumes used as search references.
type ResumeReader interface {
	Get(ctx context.Context, id string) (*resume.Resume, error)
}

// JobReader reads jobs used as search references.
type JobReader interface {
	Get(ctx context.Context, id string) (*job.Job, error)
}
