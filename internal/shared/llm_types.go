package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a provider call.
type TokenUsage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"-"`
}

// CallMeta holds operational metadata for one provider call.
type CallMeta struct {
	Action  string
	Usage   TokenUsage
	Latency time.Duration
}
