package chi

import (
	"context"

	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	healthuc "github.com/kailas-cloud/talentmatch/internal/usecase/health"
	"github.com/kailas-cloud/talentmatch/internal/usecase/orchestrator"
	searchuc "github.com/kailas-cloud/talentmatch/internal/usecase/search"
)

// Runner executes one orchestrated turn.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) envelope.Envelope
}

// Records manages resumes and jobs.
type Records interface {
	IngestResume(ctx context.Context, rawText, ownerID, fileName string) (resume.Resume, error)
	GetResume(ctx context.Context, id string) (resume.Resume, error)
	ListResumes(ctx context.Context, owner string, limit int) ([]resume.Resume, error)
	DeleteResume(ctx context.Context, id, owner string) error

	IngestJob(ctx context.Context, rawText, ownerID, fileName string) (job.Job, error)
	GetJob(ctx context.Context, id string) (job.Job, error)
	ListJobs(ctx context.Context, owner string, limit int) ([]job.Job, error)
	DeleteJob(ctx context.Context, id, owner string) error
}

// Searcher ranks candidates or jobs.
type Searcher interface {
	Search(ctx context.Context, req searchuc.Request) (searchuc.Result, error)
}

// Conversations reads chat history.
type Conversations interface {
	History(ctx context.Context, sessionID, userID string) ([]domchat.Turn, error)
	Sessions(ctx context.Context, userID string) ([]domchat.Session, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
