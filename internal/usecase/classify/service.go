// Package classify maps a free-text message onto the closed intent enumeration.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/intent"
	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
	"github.com/kailas-cloud/talentmatch/internal/usecase/llmjson"
)

const (
	temperature = 0.1
	maxTokens   = 300
	noContext   = "No additional context"
)

type reply struct {
	Intent     string         `mapstructure:"intent"`
	Confidence *float64       `mapstructure:"confidence"`
	Entities   map[string]any `mapstructure:"entities"`
}

// Service classifies messages with an LLM.
type Service struct {
	llm     Completer
	prompts Prompts
	logger  *zap.Logger
}

// New creates a classifier.
func New(llm Completer, p Prompts, logger *zap.Logger) *Service {
	return &Service{llm: llm, prompts: p, logger: logger}
}

// Classify returns the routing decision for message. It never fails:
// any problem yields the general-chat fallback with a note.
func (s *Service) Classify(ctx context.Context, message string, r role.Role, hint string) intent.Decision {
	if strings.TrimSpace(message) == "" {
		return intent.FallbackDecision("empty message")
	}

	d, err := s.classify(ctx, message, r, hint)
	if err != nil {
		s.logger.Warn("Intent classification failed, using fallback",
			zap.String("role", r.String()),
			zap.String("message", logger.Truncate(message, 120)),
			zap.Error(err),
		)
		return intent.FallbackDecision("classification failed: " + err.Error())
	}

	s.logger.Debug("Intent classified",
		zap.String("intent", d.Intent.String()),
		zap.Float64("confidence", d.Confidence),
	)
	return d
}

func (s *Service) classify(ctx context.Context, message string, r role.Role, hint string) (intent.Decision, error) {
	p, err := s.prompts.Get(prompts.Router)
	if err != nil {
		return intent.Decision{}, fmt.Errorf("load prompt: %w", err)
	}
	if strings.TrimSpace(hint) == "" {
		hint = noContext
	}

	system, user := p.Render(prompts.Vars{
		"user_role":    r.String(),
		"user_message": message,
		"context":      hint,
	})

	out, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Name:        prompts.Router,
		System:      system,
		Messages:    []domain.Message{{Role: domain.MessageRoleUser, Content: user}},
		JSON:        true,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return intent.Decision{}, fmt.Errorf("complete: %w", err)
	}

	var rep reply
	if err := llmjson.Decode(out.Text, &rep); err != nil {
		return intent.Decision{}, fmt.Errorf("decode reply: %w", err)
	}

	// Неизвестная метка молча сводится к general-chat.
	label, _ := intent.Parse(rep.Intent)

	confidence := intent.FallbackConfidence
	if rep.Confidence != nil {
		confidence = clamp(*rep.Confidence)
	}

	entities := rep.Entities
	if entities == nil {
		entities = map[string]any{}
	}

	return intent.Decision{Intent: label, Confidence: confidence, Entities: entities}, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
