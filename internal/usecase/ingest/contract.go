package ingest

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
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

// Embedder vectorizes document text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index writes entries into the similarity index.
type Index interface {
	Upsert(ctx context.Context, e vector.Entry) error
	Delete(ctx context.Context, c vector.Collection, id string) error
}

// RecordStore persists structured records of one kind.
type RecordStore[T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, id string) (*T, error)
	ListByOwner(ctx context.Context, owner string) ([]*T, error)
	Delete(ctx context.Context, id string) error
}
