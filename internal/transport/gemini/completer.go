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

// Completer runs completions against Gemini.
type Completer struct {
	models models
	model  string
	logger *zap.Logger
}

// NewCompleter creates a Gemini completer.
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	m, err := newModels(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return newCompleter(m, cfg), nil
}

func newCompleter(m models, cfg *Config) *Completer {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{models: m, model: model, logger: logger}
}

// Complete implements domain.Completer. Gemini has no system role in the
// transcript, so the system prompt travels as SystemInstruction.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.MessageRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens) //nolint:gosec // bounded by config
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(providerLabel, c.model, req.Name, "error").Inc()
		c.logger.Debug("Gemini completion failed", zap.String("request", req.Name), zap.Error(err))
		return domain.Completion{}, wrapAPIError(err, "completion", domain.ErrLLMProviderError)
	}

	text := responseText(resp)
	if text == "" {
		metrics.LLMRequestsTotal.WithLabelValues(providerLabel, c.model, req.Name, "error").Inc()
		return domain.Completion{}, fmt.Errorf("empty gemini response: %w", domain.ErrLLMProviderError)
	}

	out := domain.Completion{Text: text}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.CompletionTokens = int(u.CandidatesTokenCount)
	}

	metrics.LLMRequestsTotal.WithLabelValues(providerLabel, c.model, req.Name, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(providerLabel, c.model, req.Name).Observe(duration.Seconds())
	metrics.LLMTokensTotal.WithLabelValues(providerLabel, c.model, "prompt").Add(float64(out.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues(providerLabel, c.model, "completion").Add(float64(out.CompletionTokens))

	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(strings.TrimSpace(part.Text))
		}
		// first usable candidate only
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
