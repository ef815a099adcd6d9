package llm

import (
	"context"

	"kitchen-companion/internal/shared"
)

// Request is a single completion request. System is optional.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, req Request) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
