package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingGenerator struct {
	calls atomic.Int32
}

func (g *countingGenerator) GenerateContent(ctx context.Context, r Request) (ContentResponse, error) {
	g.calls.Add(1)
	return ContentResponse{Content: r.Prompt}, nil
}

func TestThrottledGenerator(t *testing.T) {
	inner := &countingGenerator{}
	gen := NewThrottledGenerator(inner, 1, 1)

	resp, err := gen.GenerateContent(context.Background(), Request{Prompt: "first"})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if resp.Content != "first" {
		t.Errorf("Expected passthrough content, got %q", resp.Content)
	}

	// The bucket is empty now; a short deadline cannot be met.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = gen.GenerateContent(ctx, Request{Prompt: "second"})
	if err == nil {
		t.Fatal("Expected the throttle to refuse a call it cannot serve before the deadline")
	}
	if !IsRateLimited(err) {
		t.Errorf("Expected a throttle refusal to count as rate limited, got %v", err)
	}

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = gen.GenerateContent(cancelled, Request{Prompt: "third"})
	if err == nil {
		t.Fatal("Expected a cancelled context to fail")
	}
	if IsRateLimited(err) {
		t.Errorf("Expected cancellation not to count as rate limited, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if n := inner.calls.Load(); n != 1 {
		t.Errorf("Expected 1 call to reach the provider, got %d", n)
	}
	if err := gen.Close(); err != nil {
		t.Errorf("Close on a plain generator should be a no-op, got %v", err)
	}
}
