package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledGenerator wraps a TextGenerator with a client-side token bucket.
type ThrottledGenerator struct {
	next    TextGenerator
	limiter *rate.Limiter
}

// NewThrottledGenerator allows rps calls per second with the given burst.
func NewThrottledGenerator(next TextGenerator, rps float64, burst int) *ThrottledGenerator {
	return &ThrottledGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// GenerateContent waits for a token, then delegates.
func (g *ThrottledGenerator) GenerateContent(ctx context.Context, r Request) (ContentResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			// The next token would arrive after the deadline.
			return ContentResponse{}, fmt.Errorf("waiting for provider slot: %w: %v", ErrRateLimited, err)
		}
		return ContentResponse{}, fmt.Errorf("waiting for provider slot: %w", err)
	}
	return g.next.GenerateContent(ctx, r)
}

// Close closes the wrapped generator when it holds resources.
func (g *ThrottledGenerator) Close() error {
	if c, ok := g.next.(Closer); ok {
		return c.Close()
	}
	return nil
}
