package orchestrator

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/intent"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/usecase/chat"
	"github.com/kailas-cloud/talentmatch/internal/usecase/search"
)

// Classifier labels a message. It never fails: degraded paths return a fallback decision.
type Classifier interface {
	Classify(ctx context.Context, message string, r role.Role, hint string) intent.Decision
}

// Ingester turns uploaded documents into indexed records.
type Ingester interface {
	IngestResume(ctx context.Context, rawText, ownerID, fileName string) (resume.Resume, error)
	IngestJob(ctx context.Context, rawText, ownerID, fileName string) (job.Job, error)
}

// Searcher ranks candidates or jobs.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
}

// Chatter answers conversational turns.
type Chatter interface {
	Chat(ctx context.Context, req chat.Request) (envelope.Envelope, error)
}
