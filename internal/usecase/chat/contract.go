package chat

import (
	"context"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
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

// SessionStore persists sessions and their turns.
type SessionStore interface {
	Create(ctx context.Context, s *domchat.Session) error
	Update(ctx context.Context, s *domchat.Session) error
	Get(ctx context.Context, id string) (*domchat.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*domchat.Session, error)
	AppendTurns(ctx context.Context, sessionID string, turns ...domchat.Turn) error
	RecentTurns(ctx context.Context, sessionID string, n int) ([]domchat.Turn, error)
}

// ResumeReader reads resumes bound to a session.
type ResumeReader interface {
	Get(ctx context.Context, id string) (*resume.Resume, error)
}

// JobReader reads jobs bound to a session.
type JobReader interface {
	Get(ctx context.Context, id string) (*job.Job, error)
}
