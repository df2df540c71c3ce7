package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/store"
)

// NewProvider builds the configured provider for quiz and course
// generation. Calls go through retry, then logging, then the backend, so
// every attempt is recorded in the LLM request log. A nil eventRepo
// disables recording.
//
// The mock backend answers from an empty script and is recorded like the
// real ones, which lets `classmos llm list` be exercised offline.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger logrus.FieldLogger) (Provider, error) {
	base, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	if cfg.Provider == "mock" {
		return logged, nil
	}
	return WithRetry(logged, cfg.Retry), nil
}

func newBackend(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
