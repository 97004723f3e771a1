package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/match"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

// --- Mocks ---

type mockIndex struct {
	hits    []vector.Hit
	err     error
	queries []vector.Query
}

func (m *mockIndex) Search(_ context.Context, q vector.Query) ([]vector.Hit, error) {
	m.queries = append(m.queries, q)
	return m.hits, m.err
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
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

type mockCompleter struct {
	text  string
	err   error
	calls []domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	m.calls = append(m.calls, req)
	return domain.Completion{Text: m.text}, m.err
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
	svc   *Service
	index *mockIndex
	embed *mockEmbedder
	llm   *mockCompleter
}

func newFixture(hits ...vector.Hit) *fixture {
	f := &fixture{
		index: &mockIndex{hits: hits},
		embed: &mockEmbedder{},
		llm:   &mockCompleter{text: "Senior Go backend engineer with Kubernetes"},
	}
	resumes := mockResumes{"res-1": {ID: "res-1", RawText: "Go developer, 6 years"}}
	jobs := mockJobs{"job-1": {ID: "job-1", RawText: "Hiring a senior Go engineer"}}
	f.svc = New(f.index, f.embed, f.llm, prompts.MustLoad(), resumes, jobs, DefaultConfig(), zap.NewNop())
	return f
}

// --- Tests ---

func TestSearch_Candidates(t *testing.T) {
	f := newFixture(
		vector.Hit{ID: "r1", Score: 0.8734, Metadata: map[string]any{
			"name": "Ada", "skills": []any{"Python", "Go", "SQL", "Rust"}, "current_role": "CTO at X", "experience_count": 3.0,
		}},
		vector.Hit{ID: "r2", Score: 0.5, Metadata: map[string]any{}},
	)

	res, err := f.svc.Search(context.Background(), Request{Kind: match.Candidates, Query: "senior go engineer"})
	require.NoError(t, err)

	assert.Equal(t, "senior go engineer", res.Query)
	assert.InDelta(t, 0.1, res.Threshold, 1e-9)
	require.Len(t, res.Matches, 2)

	m := res.Matches[0]
	assert.Equal(t, "r1", m.ID)
	assert.Equal(t, "Ada", m.Name)
	assert.InDelta(t, 87.3, m.Score, 1e-9)
	assert.Equal(t, 3, m.ExperienceCount)
	assert.Equal(t, "Matches on: Go", m.Explanation)

	assert.Equal(t, "Unknown", res.Matches[1].Name)
	assert.Equal(t, "Semantic match based on overall profile", res.Matches[1].Explanation)

	q := f.index.queries[0]
	assert.Equal(t, vector.Resumes, q.Collection)
	assert.Equal(t, 10, q.Limit)
	assert.Empty(t, f.llm.calls, "no LLM call for explicit queries")
}

func TestSearch_JobsKeepsIndexOrder(t *testing.T) {
	f := newFixture(
		vector.Hit{ID: "j2", Score: 0.9, Metadata: map[string]any{"title": "Go Dev", "required_skills": []any{"Go"}}},
		vector.Hit{ID: "j1", Score: 0.7, Metadata: map[string]any{"company": ""}},
	)

	res, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, Query: "backend roles"})
	require.NoError(t, err)

	require.Len(t, res.Matches, 2)
	assert.Equal(t, "j2", res.Matches[0].ID)
	assert.Equal(t, "Unknown Position", res.Matches[1].Title)
	assert.Equal(t, "Unknown Company", res.Matches[1].Company)
	assert.Equal(t, vector.Jobs, f.index.queries[0].Collection)
}

func TestSearch_ShowAllDropsThreshold(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Search(context.Background(), Request{Kind: match.Candidates, Query: "Show me ALL candidates please"})
	require.NoError(t, err)

	assert.Zero(t, res.Threshold)
	assert.Zero(t, f.index.queries[0].Threshold)
}

func TestSearch_Limit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 10},
		{-3, 10},
		{7, 7},
		{500, 50},
	}
	for _, tc := range tests {
		f := newFixture()
		_, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, Query: "q", Limit: tc.in})
		require.NoError(t, err)
		assert.Equal(t, tc.want, f.index.queries[0].Limit, "limit %d", tc.in)
	}
}

func TestSearch_ReferenceSynthesizesQuery(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Search(context.Background(), Request{Kind: match.Candidates, ReferenceID: "job-1"})
	require.NoError(t, err)

	assert.Equal(t, "Senior Go backend engineer with Kubernetes", res.Query)
	require.Len(t, f.llm.calls, 1)
	call := f.llm.calls[0]
	assert.Equal(t, prompts.CandidatesFromJob, call.Name)
	assert.InDelta(t, 0.3, call.Temperature, 1e-6)
	assert.Contains(t, call.Messages[0].Content, "Hiring a senior Go engineer")
	assert.Equal(t, []string{"Senior Go backend engineer with Kubernetes"}, f.embed.texts)
}

func TestSearch_ReferenceResumeForJobs(t *testing.T) {
	f := newFixture()
	f.llm.text = `"Backend Go roles"`

	res, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, ReferenceID: "res-1"})
	require.NoError(t, err)

	assert.Equal(t, "Backend Go roles", res.Query)
	assert.Equal(t, prompts.JobsFromResume, f.llm.calls[0].Name)
}

func TestSearch_FallbackQueries(t *testing.T) {
	t.Run("missing reference", func(t *testing.T) {
		f := newFixture()
		res, err := f.svc.Search(context.Background(), Request{Kind: match.Candidates, ReferenceID: "nope"})
		require.NoError(t, err)
		assert.Equal(t, FallbackCandidatesQuery, res.Query)
		assert.Empty(t, f.llm.calls)
	})
	t.Run("synthesis failure", func(t *testing.T) {
		f := newFixture()
		f.llm.err = errors.New("llm down")
		res, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, ReferenceID: "res-1"})
		require.NoError(t, err)
		assert.Equal(t, FallbackJobsQuery, res.Query)
	})
	t.Run("nothing", func(t *testing.T) {
		f := newFixture()
		res, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, Query: "   "})
		require.NoError(t, err)
		assert.Equal(t, FallbackJobsQuery, res.Query)
		assert.False(t, IsShowAll(match.Jobs, res.Query))
	})
	t.Run("candidate fallback keeps threshold", func(t *testing.T) {
		f := newFixture()
		res, err := f.svc.Search(context.Background(), Request{Kind: match.Candidates})
		require.NoError(t, err)
		assert.Equal(t, FallbackCandidatesQuery, res.Query)
		assert.InDelta(t, 0.1, res.Threshold, 1e-9)
	})
}

func TestSearch_FiltersPassedThrough(t *testing.T) {
	f := newFixture()
	filters := map[string]string{"location": "Berlin", "salary": "100k"}

	_, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, Query: "q", Filters: filters})
	require.NoError(t, err)

	assert.Equal(t, filters, f.index.queries[0].Filters)
}

func TestSearch_Errors(t *testing.T) {
	t.Run("invalid kind", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Search(context.Background(), Request{Kind: "pets", Query: "q"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("embed", func(t *testing.T) {
		f := newFixture()
		f.embed.err = domain.ErrEmbeddingProviderError
		_, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, Query: "q"})
		assert.ErrorIs(t, err, domain.ErrEmbeddingProviderError)
	})
	t.Run("index", func(t *testing.T) {
		f := newFixture()
		f.index.err = domain.ErrIndexUnavailable
		_, err := f.svc.Search(context.Background(), Request{Kind: match.Jobs, Query: "q"})
		assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	})
}

func TestIsShowAll(t *testing.T) {
	tests := []struct {
		kind  match.Kind
		query string
		want  bool
	}{
		{match.Candidates, "list candidates for backend", true},
		{match.Candidates, "Best Match for this job", true},
		{match.Candidates, "senior rust engineer", false},
		{match.Candidates, "show jobs", false},
		{match.Jobs, "any job openings in Berlin?", true},
		{match.Jobs, "Jobs for me", true},
		{match.Jobs, "open positions", true},
		{match.Jobs, "remote python role", false},
		{match.Jobs, "all candidates", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsShowAll(tc.kind, tc.query), "%s: %q", tc.kind, tc.query)
	}
}
