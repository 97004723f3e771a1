package chat

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

type mockCompleter struct {
	text  string
	err   error
	calls []domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return domain.Completion{}, m.err
	}
	return domain.Completion{Text: m.text}, nil
}

type memSessions struct {
	sessions  map[string]domchat.Session
	turns     map[string][]domchat.Turn
	appendErr error
	getErr    error
	touched   map[string]time.Time
	window    []int
}

func newMemSessions() *memSessions {
	return &memSessions{
		sessions: map[string]domchat.Session{},
		turns:    map[string][]domchat.Turn{},
		touched:  map[string]time.Time{},
	}
}

func (m *memSessions) Create(_ context.Context, s *domchat.Session) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) Update(_ context.Context, s *domchat.Session) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*domchat.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Touch(_ context.Context, id string, at time.Time) error {
	m.touched[id] = at
	return nil
}

func (m *memSessions) ListByUser(_ context.Context, userID string) ([]*domchat.Session, error) {
	var out []*domchat.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memSessions) AppendTurns(_ context.Context, id string, turns ...domchat.Turn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns[id] = append(m.turns[id], turns...)
	return nil
}

func (m *memSessions) RecentTurns(_ context.Context, id string, n int) ([]domchat.Turn, error) {
	m.window = append(m.window, n)
	all := m.turns[id]
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return append([]domchat.Turn(nil), all...), nil
}

type mockResumes map[string]*resume.Resume

func (m mockResumes) Get(_ context.Context, id string) (*resume.Resume, error) {
	if r, ok := m[id]; ok {
		return r, nil
	}
	return nil, domain.ErrResumeNotFound
}

type mockJobs map[string]*job.Job

func (m mockJobs) Get(_ context.Context, id string) (*job.Job, error) {
	if j, ok := m[id]; ok {
		return j, nil
	}
	return nil, domain.ErrJobNotFound
}

type fixture struct {
	svc      *Service
	llm      *mockCompleter
	sessions *memSessions
}

func newFixture() *fixture {
	skills := make([]string, 12)
	for i := range skills {
		skills[i] = fmt.Sprintf("skill-%d", i)
	}

	resumes := mockResumes{
		"res-1": {ID: "res-1", Parsed: resume.Parsed{Name: "Ada", Skills: skills}},
		"res-2": {ID: "res-2", Parsed: resume.Parsed{Name: "Grace", Skills: []string{"COBOL"}}},
	}
	jobs := mockJobs{
		"job-1": {ID: "job-1", Parsed: job.Parsed{Title: "Go Developer", Company: "Globex"}},
	}

	f := &fixture{
		llm:      &mockCompleter{text: "Here is my advice."},
		sessions: newMemSessions(),
	}
	f.svc = New(f.llm, prompts.MustLoad(), f.sessions, resumes, jobs, 0, zap.NewNop())

	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, seq, 0, time.UTC) }
	return f
}
