package orchestrator

import (
	"context"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/intent"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/usecase/chat"
	"github.com/kailas-cloud/talentmatch/internal/usecase/search"
)

// --- Mocks ---

type mockClassifier struct {
	decision intent.Decision
	calls    int
	hint     string
	panicMsg string
}

func (m *mockClassifier) Classify(_ context.Context, _ string, _ role.Role, hint string) intent.Decision {
	m.calls++
	m.hint = hint
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.decision
}

type mockIngester struct {
	resume     resume.Resume
	job        job.Job
	err        error
	resumeCall int
	jobCall    int
	lastText   string
	lastOwner  string
}

func (m *mockIngester) IngestResume(_ context.Context, raw, owner, _ string) (resume.Resume, error) {
	m.resumeCall++
	m.lastText, m.lastOwner = raw, owner
	return m.resume, m.err
}

func (m *mockIngester) IngestJob(_ context.Context, raw, owner, _ string) (job.Job, error) {
	m.jobCall++
	m.lastText, m.lastOwner = raw, owner
	return m.job, m.err
}

type mockSearcher struct {
	result search.Result
	err    error
	calls  []search.Request
	panics bool
}

func (m *mockSearcher) Search(_ context.Context, req search.Request) (search.Result, error) {
	m.calls = append(m.calls, req)
	if m.panics {
		panic("nil map write")
	}
	return m.result, m.err
}

type mockChatter struct {
	env   envelope.Envelope
	err   error
	calls []chat.Request
	block bool
}

func (m *mockChatter) Chat(ctx context.Context, req chat.Request) (envelope.Envelope, error) {
	m.calls = append(m.calls, req)
	if m.block {
		<-ctx.Done()
		return envelope.Envelope{}, ctx.Err()
	}
	return m.env, m.err
}

type fixture struct {
	orch       *Orchestrator
	classifier *mockClassifier
	ingest     *mockIngester
	search     *mockSearcher
	chat       *mockChatter
	spans      *tracetest.SpanRecorder
}

func newFixture(label intent.Intent) *fixture {
	return newFixtureTimeout(label, 0)
}

func newFixtureTimeout(label intent.Intent, timeout time.Duration) *fixture {
	f := &fixture{
		classifier: &mockClassifier{decision: intent.Decision{Intent: label, Confidence: 0.9, Entities: map[string]any{}}},
		ingest:     &mockIngester{},
		search:     &mockSearcher{},
		chat:       &mockChatter{env: envelope.New("Hello!").WithSession("s-new")},
		spans:      tracetest.NewSpanRecorder(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.spans))
	f.orch = New(f.classifier, f.ingest, f.search, f.chat, tp, timeout, zap.NewNop())
	return f
}

func (f *fixture) handlerCalls() int {
	return f.ingest.resumeCall + f.ingest.jobCall + len(f.search.calls) + len(f.chat.calls)
}
