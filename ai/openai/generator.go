package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexibase/lexibase/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-generator", "model", config.GenerationModel),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces text for the prompt at the given sampling temperature.
// Generation is single-attempt: transport errors surface immediately, and
// quota exhaustion is reported wrapping ai.ErrQuotaExceeded.
func (g *Generator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(temperature))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("generation returned no choices")
		return "", ai.ErrEmptyResponse
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// isQuotaError detects quota or rate-limit refusals across provider
// phrasings ("quota", "rate limit", RESOURCE_EXHAUSTED, HTTP 429).
func isQuotaError(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "quota") ||
		strings.Contains(text, "rate limit") ||
		strings.Contains(text, "resource_exhausted") ||
		strings.Contains(text, "429")
}
