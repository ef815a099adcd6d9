package quota

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestGate(store Store) (*Gate, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewGate(store, WithClock(clock.Now)), clock
}

func TestGate_BlocksAfterDailyMax(t *testing.T) {
	ctx := context.Background()
	gate, _ := newTestGate(NewMemoryStore())

	for i := 1; i <= DailyMax; i++ {
		res, usage, err := gate.Reserve(ctx, ActionRecipe)
		require.NoError(t, err)
		require.NotNil(t, res, "reservation %d should be granted", i)
		assert.True(t, usage.CanProceed || i == DailyMax)

		usage, err = res.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, usage.Current)
		assert.Equal(t, DailyMax-i, usage.Remaining)
	}

	res, usage, err := gate.Reserve(ctx, ActionRecipe)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, Usage{Current: 5, Max: 5, Remaining: 0, CanProceed: false}, usage)

	// Substitutions are counted separately.
	sub, _, err := gate.Reserve(ctx, ActionSubstitution)
	require.NoError(t, err)
	assert.NotNil(t, sub)
}

func TestGate_ReleaseDoesNotCount(t *testing.T) {
	ctx := context.Background()
	gate, _ := newTestGate(NewMemoryStore())

	for i := 0; i < 10; i++ {
		res, _, err := gate.Reserve(ctx, ActionRecipe)
		require.NoError(t, err)
		require.NotNil(t, res)
		require.NoError(t, res.Release(ctx))
	}

	usage, err := gate.Check(ctx, ActionRecipe)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Current)
	assert.Equal(t, 5, usage.Remaining)
	assert.True(t, usage.CanProceed)
}

func TestGate_InFlightBlocksButIsNotCounted(t *testing.T) {
	ctx := context.Background()
	gate, _ := newTestGate(NewMemoryStore())

	held := make([]*Reservation, 0, DailyMax)
	for i := 0; i < DailyMax; i++ {
		res, _, err := gate.Reserve(ctx, ActionRecipe)
		require.NoError(t, err)
		held = append(held, res)
	}

	usage, err := gate.Check(ctx, ActionRecipe)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Current)
	assert.Equal(t, 5, usage.Remaining)
	assert.False(t, usage.CanProceed)

	require.NoError(t, held[0].Release(ctx))
	res, _, err := gate.Reserve(ctx, ActionRecipe)
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestGate_ResetsOnNewDay(t *testing.T) {
	ctx := context.Background()
	gate, clock := newTestGate(NewMemoryStore())

	for i := 0; i < DailyMax; i++ {
		res, _, err := gate.Reserve(ctx, ActionRecipe)
		require.NoError(t, err)
		_, err = res.Commit(ctx)
		require.NoError(t, err)
	}
	usage, _ := gate.Check(ctx, ActionRecipe)
	require.False(t, usage.CanProceed)

	clock.Set(time.Date(2024, 3, 11, 0, 0, 1, 0, time.UTC))
	usage, err := gate.Check(ctx, ActionRecipe)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Current)
	assert.True(t, usage.CanProceed)
}

func TestGate_DayIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 22:00 on the 10th in UTC-5 is already the 11th in UTC.
	gate := NewGate(NewMemoryStore(), WithClock(func() time.Time {
		return time.Date(2024, 3, 10, 22, 0, 0, 0, loc)
	}))
	assert.Equal(t, "2024-03-11", gate.Day())
}

func TestGate_CommitAcrossMidnightIsDropped(t *testing.T) {
	ctx := context.Background()
	gate, clock := newTestGate(NewMemoryStore())

	res, _, err := gate.Reserve(ctx, ActionRecipe)
	require.NoError(t, err)

	clock.Set(time.Date(2024, 3, 11, 0, 0, 5, 0, time.UTC))
	usage, err := res.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Current)
	assert.True(t, usage.CanProceed)
}

func TestReservation_SettlesOnce(t *testing.T) {
	ctx := context.Background()
	gate, _ := newTestGate(NewMemoryStore())

	res, _, err := gate.Reserve(ctx, ActionRecipe)
	require.NoError(t, err)

	_, err = res.Commit(ctx)
	require.NoError(t, err)
	_, err = res.Commit(ctx)
	assert.True(t, errors.Is(err, ErrAlreadySettled))
	assert.True(t, errors.Is(res.Release(ctx), ErrAlreadySettled))

	usage, _ := gate.Check(ctx, ActionRecipe)
	assert.Equal(t, 1, usage.Current)
}

func TestGate_ConcurrentReservationsNeverExceedMax(t *testing.T) {
	ctx := context.Background()
	gate, _ := newTestGate(NewMemoryStore())

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _, err := gate.Reserve(ctx, ActionRecipe)
			if err != nil || res == nil {
				return
			}
			granted.Add(1)
			_, _ = res.Commit(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(DailyMax), granted.Load())
	usage, err := gate.Check(ctx, ActionRecipe)
	require.NoError(t, err)
	assert.Equal(t, DailyMax, usage.Current)
	assert.Equal(t, 0, usage.Remaining)
}
