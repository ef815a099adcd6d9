package app

import (
	"context"
	"fmt"

	"kitchen-companion/internal/quota"
)

// UsageStatus is the read-only view behind the usage endpoints.
type UsageStatus struct {
	Usage   quota.Usage
	Message string
}

// Usage reports the daily usage of action without reserving anything.
func (a *App) Usage(ctx context.Context, action quota.Action) (UsageStatus, error) {
	u, err := a.gate.Check(ctx, action)
	if err != nil {
		return UsageStatus{}, fmt.Errorf("failed to check daily usage: %w", err)
	}

	noun := "recipe"
	if action == quota.ActionSubstitution {
		noun = "substitution"
	}
	var msg string
	switch {
	case u.Remaining == 0:
		msg = fmt.Sprintf("Daily AI %s limit reached", noun)
	case u.CanProceed:
		msg = fmt.Sprintf("%d AI %s generations remaining today", u.Remaining, noun)
	default:
		// Every remaining slot is held by a request still running.
		msg = fmt.Sprintf("%d AI %s generations remaining today, all in progress", u.Remaining, noun)
	}
	return UsageStatus{Usage: u, Message: msg}, nil
}
