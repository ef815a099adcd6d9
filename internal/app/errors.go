package app

import (
	"fmt"

	"kitchen-companion/internal/quota"
)

const limitExplanation = "This is a portfolio demo with API cost management. The limit resets daily at midnight UTC. You can still use the other features of the app!"

// LimitError is returned when the daily quota of an action is used up.
type LimitError struct {
	Code         string
	Message      string
	Explanation  string
	Alternatives []string
	Usage        quota.Usage
}

func (e *LimitError) Error() string { return e.Message }

func newLimitError(action quota.Action, usage quota.Usage) *LimitError {
	usage.Remaining = 0
	usage.CanProceed = false
	if action == quota.ActionSubstitution {
		return &LimitError{
			Code:        "daily_substitution_limit_exceeded",
			Message:     fmt.Sprintf("Daily AI substitution limit reached (%d substitutions per day)", usage.Max),
			Explanation: limitExplanation,
			Alternatives: []string{
				"Try the built-in substitution lookup",
				"Explore the meal planning feature",
				"Check back tomorrow for more AI substitution generations",
			},
			Usage: usage,
		}
	}
	return &LimitError{
		Code:        "daily_limit_exceeded",
		Message:     fmt.Sprintf("Daily AI recipe limit reached (%d recipes per day)", usage.Max),
		Explanation: limitExplanation,
		Alternatives: []string{
			"Try the ingredient substitution finder",
			"Explore the meal planning feature",
			"Check back tomorrow for more AI recipe generations",
		},
		Usage: usage,
	}
}

// InputError is a client mistake; it never reaches the provider.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// ProviderError is a provider failure that no fallback covers.
type ProviderError struct {
	Summary string
	Err     error
}

func (e *ProviderError) Error() string { return e.Summary + ": " + e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }

// ProviderCheckError is a failed connectivity check, classified by kind.
type ProviderCheckError struct {
	Kind    string
	Message string
	Err     error
}

func (e *ProviderCheckError) Error() string { return e.Message }

func (e *ProviderCheckError) Unwrap() error { return e.Err }
