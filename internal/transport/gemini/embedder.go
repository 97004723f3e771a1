package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// Embedder vectorizes text with Gemini embedding models.
type Embedder struct {
	models     models
	model      string
	dimensions int
	logger     *zap.Logger
}

// NewEmbedder creates a Gemini embedder. Dimensions must match the vector index.
func NewEmbedder(ctx context.Context, cfg *Config) (*Embedder, error) {
	m, err := newModels(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return newEmbedder(m, cfg), nil
}

func newEmbedder(m models, cfg *Config) *Embedder {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultEmbeddingModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{models: m, model: model, dimensions: cfg.Dimensions, logger: logger}
}

// Embed implements domain.Embedder. Gemini does not report token usage for embeddings.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	cfg := &genai.EmbedContentConfig{}
	if e.dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(e.dimensions)) //nolint:gosec // bounded by config
	}

	start := time.Now()
	resp, err := e.models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, cfg)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, e.model, "api_error").Inc()
		e.logger.Debug("Gemini embedding failed", zap.Error(err))
		return domain.EmbeddingResult{}, wrapAPIError(err, "embedding", domain.ErrEmbeddingProviderError)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerLabel, e.model, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerLabel, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerLabel, e.model).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: resp.Embeddings[0].Values}, nil
}
