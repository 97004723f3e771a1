// Package gemini adapts the Google GenAI SDK to the domain Completer and Embedder contracts.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "gemini-embedding-001"
	providerLabel         = "gemini"
)

// Config holds Gemini API settings.
type Config struct {
	APIKey     string
	Model      string
	Dimensions int // embeddings only
	Logger     *zap.Logger
}

// models is the subset of *genai.Models used here; tests swap in a fake.
type models interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	EmbedContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig,
	) (*genai.EmbedContentResponse, error)
}

func newModels(ctx context.Context, apiKey string) (models, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

// wrapAPIError keeps the status of genai.APIError in the message and tags it with sentinel.
func wrapAPIError(err error, what string, sentinel error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d %s: %s: %w", what, apiErr.Code, apiErr.Status, apiErr.Message, sentinel)
	}
	return fmt.Errorf("%s request failed: %v: %w", what, err, sentinel)
}
