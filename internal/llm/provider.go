package llm

import (
	"context"

	"kitchen-companion/internal/config"
)

// NewFromConfig builds the configured provider behind the client-side throttle.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*ThrottledGenerator, error) {
	var gen TextGenerator
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		g, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		gen = NewOpenAIClient(cfg)
	}
	return NewThrottledGenerator(gen, cfg.LLMRateLimit, cfg.LLMBurst), nil
}
