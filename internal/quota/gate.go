// Package quota enforces the daily limit on AI-backed requests.
//
// A request reserves a slot before calling the provider and then either
// commits it (the call produced a usable answer) or releases it. Counters
// roll over at midnight UTC.
package quota

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DailyMax is the number of successful generations allowed per action per day.
const DailyMax = 5

// Action names one independently counted endpoint family.
type Action string

const (
	ActionRecipe       Action = "recipe"
	ActionSubstitution Action = "substitution"
)

// ErrAlreadySettled is returned when a reservation is committed or released twice.
var ErrAlreadySettled = errors.New("reservation already settled")

// Counter is the stored state of one action for one day.
type Counter struct {
	Date     string
	Count    int
	InFlight int
	Max      int
}

// Usage is what callers see of a counter.
type Usage struct {
	Current    int  `json:"current"`
	Max        int  `json:"max"`
	Remaining  int  `json:"remaining"`
	CanProceed bool `json:"canGenerate"`
}

// UsageOf derives the caller view of a counter.
func UsageOf(c Counter) Usage {
	remaining := c.Max - c.Count
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		Current:    c.Count,
		Max:        c.Max,
		Remaining:  remaining,
		CanProceed: c.Count+c.InFlight < c.Max,
	}
}

// Store persists counters. Implementations apply the day rollover themselves:
// a stored counter whose Date differs from day is treated as empty.
type Store interface {
	Load(ctx context.Context, action Action, day string, max int) (Counter, error)
	// Reserve takes a slot when Count+InFlight < max and reports whether it did.
	Reserve(ctx context.Context, action Action, day string, max int) (Counter, bool, error)
	// Commit moves one slot of day from in flight to counted.
	Commit(ctx context.Context, action Action, day string, max int) (Counter, error)
	// Release gives one in-flight slot of day back.
	Release(ctx context.Context, action Action, day string) error
}

// Gate checks and reserves quota for actions.
type Gate struct {
	store Store
	max   int
	now   func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithMax overrides DailyMax.
func WithMax(max int) Option {
	return func(g *Gate) { g.max = max }
}

// NewGate creates a gate over store.
func NewGate(store Store, opts ...Option) *Gate {
	g := &Gate{store: store, max: DailyMax, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Day returns the current quota day.
func (g *Gate) Day() string {
	return g.now().UTC().Format(time.DateOnly)
}

// Check returns the usage of action without changing it.
func (g *Gate) Check(ctx context.Context, action Action) (Usage, error) {
	c, err := g.store.Load(ctx, action, g.Day(), g.max)
	if err != nil {
		return Usage{}, err
	}
	return UsageOf(c), nil
}

// Reserve takes a slot for action. It returns a nil reservation when the
// daily limit is reached; the returned usage describes the counter either way.
func (g *Gate) Reserve(ctx context.Context, action Action) (*Reservation, Usage, error) {
	day := g.Day()
	c, ok, err := g.store.Reserve(ctx, action, day, g.max)
	if err != nil {
		return nil, Usage{}, err
	}
	if !ok {
		return nil, UsageOf(c), nil
	}
	return &Reservation{gate: g, action: action, day: day}, UsageOf(c), nil
}

// Reservation is a slot held between the gate and the provider outcome.
type Reservation struct {
	gate   *Gate
	action Action
	day    string

	mu      sync.Mutex
	settled bool
}

// Day is the quota day the slot was taken from.
func (r *Reservation) Day() string { return r.day }

func (r *Reservation) settle() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return ErrAlreadySettled
	}
	r.settled = true
	return nil
}

// Commit counts the reservation and returns the usage of the current day.
func (r *Reservation) Commit(ctx context.Context) (Usage, error) {
	if err := r.settle(); err != nil {
		return Usage{}, err
	}
	if _, err := r.gate.store.Commit(ctx, r.action, r.day, r.gate.max); err != nil {
		return Usage{}, err
	}
	// The day may have rolled over while the provider was working.
	return r.gate.Check(ctx, r.action)
}

// Release returns the slot without counting it.
func (r *Reservation) Release(ctx context.Context) error {
	if err := r.settle(); err != nil {
		return err
	}
	return r.gate.store.Release(ctx, r.action, r.day)
}
