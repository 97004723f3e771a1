// Package search ranks candidates or jobs by semantic similarity to a query.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/match"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

// Fallback queries used when neither a query nor a usable reference is given.
const (
	FallbackCandidatesQuery = "Find qualified candidates"
	FallbackJobsQuery       = "Find relevant job opportunities"
)

const (
	synthTemperature = 0.3
	synthMaxTokens   = 200
	// raw text sent for query synthesis is capped to keep the prompt small
	synthMaxRunes = 6000
)

// Config holds search tuning.
type Config struct {
	DefaultThreshold float64
	DefaultLimit     int
	MaxLimit         int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{DefaultThreshold: 0.1, DefaultLimit: 10, MaxLimit: 50}
}

// Request is one search call.
type Request struct {
	Kind match.Kind
	// Query is free text; when empty, ReferenceID is used to synthesize one.
	Query string
	// ReferenceID names a job (candidate search) or resume (job search).
	ReferenceID string
	Filters     map[string]string
	Limit       int
}

// Result is the ranked output of a search.
type Result struct {
	Kind      match.Kind
	Query     string // the query actually embedded
	Threshold float64
	Matches   []match.Match
}

// Service handles semantic search over resumes and jobs.
type Service struct {
	index   Index
	embed   Embedder
	llm     Completer
	prompts Prompts
	resumes ResumeReader
	jobs    JobReader
	cfg     Config
	logger  *zap.Logger
}

// New creates a search service.
func New(
	index Index, embed Embedder, llm Completer, p Prompts,
	resumes ResumeReader, jobs JobReader, cfg Config, logger *zap.Logger,
) *Service {
	def := DefaultConfig()
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	return &Service{
		index: index, embed: embed, llm: llm, prompts: p,
		resumes: resumes, jobs: jobs, cfg: cfg, logger: logger,
	}
}

// Search resolves the query, embeds it and returns ranked matches in index order.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	if !req.Kind.Valid() {
		return Result{}, fmt.Errorf("%w: unknown search kind %q", domain.ErrInvalidInput, req.Kind)
	}

	query := s.resolveQuery(ctx, req)
	showAll := IsShowAll(req.Kind, query)

	threshold := s.cfg.DefaultThreshold
	if showAll {
		threshold = 0
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector.Query{
		Collection: req.Kind.Collection(),
		Vector:     emb.Embedding,
		Limit:      s.limit(req.Limit),
		Threshold:  threshold,
		Filters:    req.Filters,
	})
	if err != nil {
		return Result{}, fmt.Errorf("search index: %w", err)
	}

	matches := make([]match.Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, match.FromHit(req.Kind, h, query))
	}

	metrics.SearchResults.WithLabelValues(string(req.Kind), strconv.FormatBool(showAll)).Observe(float64(len(matches)))
	s.logger.Debug("Search completed",
		zap.String("kind", string(req.Kind)),
		zap.String("query", logger.Truncate(query, 120)),
		zap.Bool("show_all", showAll),
		zap.Int("results", len(matches)),
	)

	return Result{Kind: req.Kind, Query: query, Threshold: threshold, Matches: matches}, nil
}

func (s *Service) limit(n int) int {
	switch {
	case n <= 0:
		return s.cfg.DefaultLimit
	case n > s.cfg.MaxLimit:
		return s.cfg.MaxLimit
	default:
		return n
	}
}

// resolveQuery picks the explicit query, then a query synthesized from the
// reference record, then the per-kind fallback.
func (s *Service) resolveQuery(ctx context.Context, req Request) string {
	if q := strings.TrimSpace(req.Query); q != "" {
		return q
	}

	if ref := strings.TrimSpace(req.ReferenceID); ref != "" {
		q, err := s.synthesize(ctx, req.Kind, ref)
		if err == nil && q != "" {
			return q
		}
		s.logger.Warn("Query synthesis failed, using fallback query",
			zap.String("kind", string(req.Kind)),
			zap.String("reference_id", ref),
			zap.Error(err),
		)
	}

	if req.Kind == match.Jobs {
		return FallbackJobsQuery
	}
	return FallbackCandidatesQuery
}

func (s *Service) synthesize(ctx context.Context, kind match.Kind, refID string) (string, error) {
	var (
		promptName, textVar, rawText string
	)

	switch kind {
	case match.Jobs:
		r, err := s.resumes.Get(ctx, refID)
		if err != nil {
			return "", fmt.Errorf("load reference resume: %w", err)
		}
		promptName, textVar, rawText = prompts.JobsFromResume, "resume_text", r.RawText
	default:
		j, err := s.jobs.Get(ctx, refID)
		if err != nil {
			return "", fmt.Errorf("load reference job: %w", err)
		}
		promptName, textVar, rawText = prompts.CandidatesFromJob, "job_description", j.RawText
	}

	p, err := s.prompts.Get(promptName)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}
	system, user := p.Render(prompts.Vars{textVar: resume.Truncate(rawText, synthMaxRunes)})

	out, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Name:        promptName,
		System:      system,
		Messages:    []domain.Message{{Role: domain.MessageRoleUser, Content: user}},
		Temperature: synthTemperature,
		MaxTokens:   synthMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	return strings.Trim(strings.TrimSpace(out.Text), `"`), nil
}
