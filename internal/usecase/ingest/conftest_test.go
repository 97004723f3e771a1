package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
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

type mockEmbedder struct {
	err   error
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

type mockIndex struct {
	upsertErr error
	deleteErr error
	entries   map[string]vector.Entry
	deleted   []string
}

func newMockIndex() *mockIndex { return &mockIndex{entries: map[string]vector.Entry{}} }

func (m *mockIndex) Upsert(_ context.Context, e vector.Entry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockIndex) Delete(_ context.Context, _ vector.Collection, id string) error {
	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.entries, id)
	return nil
}

// memStore is an in-memory RecordStore.
type memStore[T any] struct {
	mu        sync.Mutex
	items     map[string]*T
	order     []string
	idOf      func(*T) string
	ownerOf   func(*T) string
	notFound  error
	createErr error
}

func (m *memStore[T]) Create(_ context.Context, rec *T) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.idOf(rec)
	m.items[id] = rec
	m.order = append(m.order, id)
	return nil
}

func (m *memStore[T]) Get(_ context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", m.notFound, id)
	}
	return rec, nil
}

func (m *memStore[T]) ListByOwner(_ context.Context, owner string) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*T
	for i := len(m.order) - 1; i >= 0; i-- {
		rec, ok := m.items[m.order[i]]
		if ok && m.ownerOf(rec) == owner {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return m.notFound
	}
	delete(m.items, id)
	return nil
}

func newResumeStore() *memStore[resume.Resume] {
	return &memStore[resume.Resume]{
		items:    map[string]*resume.Resume{},
		idOf:     func(r *resume.Resume) string { return r.ID },
		ownerOf:  func(r *resume.Resume) string { return r.CandidateID },
		notFound: domain.ErrResumeNotFound,
	}
}

func newJobStore() *memStore[job.Job] {
	return &memStore[job.Job]{
		items:    map[string]*job.Job{},
		idOf:     func(j *job.Job) string { return j.ID },
		ownerOf:  func(j *job.Job) string { return j.RecruiterID },
		notFound: domain.ErrJobNotFound,
	}
}

type fixture struct {
	svc     *Service
	llm     *mockCompleter
	embed   *mockEmbedder
	index   *mockIndex
	resumes *memStore[resume.Resume]
	jobs    *memStore[job.Job]
}

func newFixture(reply string) *fixture {
	f := &fixture{
		llm:     &mockCompleter{text: reply},
		embed:   &mockEmbedder{},
		index:   newMockIndex(),
		resumes: newResumeStore(),
		jobs:    newJobStore(),
	}
	f.svc = New(f.llm, prompts.MustLoad(), f.embed, f.index, f.resumes, f.jobs, zap.NewNop())

	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
