package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/shared"
)

const checkPrompt = "Say 'Hello from OpenAI! Your API key is working correctly.' in exactly that format."

// ProviderCheck is the answer of a successful connectivity check.
type ProviderCheck struct {
	Response  string
	Model     string
	Usage     shared.TokenUsage
	Timestamp time.Time
}

// TestProvider sends a fixed prompt to the provider. It does not use quota.
func (a *App) TestProvider(ctx context.Context) (ProviderCheck, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()

	resp, err := a.textGen.GenerateContent(callCtx, llm.Request{Prompt: checkPrompt, MaxTokens: 50})
	if err != nil {
		kind := llm.Classify(err)
		a.logger.Warn("provider connectivity check failed", zap.String("kind", kind), zap.Error(err))
		return ProviderCheck{}, &ProviderCheckError{Kind: kind, Message: checkMessage(kind, err), Err: err}
	}

	text := resp.Content
	if text == "" {
		text = "No response received"
	}
	model := resp.Usage.Model
	if model == "" {
		model = a.model
	}
	return ProviderCheck{Response: text, Model: model, Usage: resp.Usage, Timestamp: a.now().UTC()}, nil
}

func checkMessage(kind string, err error) string {
	switch kind {
	case llm.KindAuthentication:
		return "Invalid API key - please check your provider API key in the .env file"
	case llm.KindRateLimit:
		return "Rate limit exceeded or quota reached"
	case llm.KindNetwork:
		return "Network error - check your internet connection"
	default:
		return err.Error()
	}
}
