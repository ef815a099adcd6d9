package quota

import (
	"context"
	"sync"
)

// MemoryStore keeps counters in process memory. Counts are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[Action]*Counter
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[Action]*Counter)}
}

// current returns the counter of action, reset first when its day is stale.
// Callers hold s.mu.
func (s *MemoryStore) current(action Action, day string, max int) *Counter {
	c, ok := s.counters[action]
	if !ok || c.Date != day {
		c = &Counter{Date: day}
		s.counters[action] = c
	}
	c.Max = max
	return c
}

func (s *MemoryStore) Load(_ context.Context, action Action, day string, max int) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.current(action, day, max), nil
}

func (s *MemoryStore) Reserve(_ context.Context, action Action, day string, max int) (Counter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.current(action, day, max)
	if c.Count+c.InFlight >= max {
		return *c, false, nil
	}
	c.InFlight++
	return *c, true, nil
}

func (s *MemoryStore) Commit(_ context.Context, action Action, day string, max int) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[action]
	if !ok || c.Date != day {
		// Reserved yesterday; today's counter starts clean.
		return *s.current(action, day, max), nil
	}
	if c.InFlight > 0 {
		c.InFlight--
	}
	if c.Count < max {
		c.Count++
	}
	return *c, nil
}

func (s *MemoryStore) Release(_ context.Context, action Action, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[action]
	if ok && c.Date == day && c.InFlight > 0 {
		c.InFlight--
	}
	return nil
}
