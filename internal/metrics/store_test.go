package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"kitchen-companion/internal/database"
	"kitchen-companion/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), zap.NewNop())
	require.NoError(t, err)
	store := NewStore(db.SQL)
	store.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_DailyUsage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	today := store.now()

	require.NoError(t, store.RecordCall(ctx, shared.CallMeta{
		Action:  "recipe",
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 40, Model: "gpt"},
		Latency: 800 * time.Millisecond,
	}, OutcomeSuccess))
	require.NoError(t, store.Record(ctx, ExecutionMetric{
		Action: "recipe", Model: "gpt", Outcome: OutcomeFallbackParse,
		PromptTokens: 50, CompletionTokens: 10, LatencyMS: 400, Timestamp: today.Add(-time.Hour),
	}))
	require.NoError(t, store.Record(ctx, ExecutionMetric{
		Action: "substitution", Model: "gpt", Outcome: OutcomeSuccess,
		PromptTokens: 20, CompletionTokens: 5, LatencyMS: 100, Timestamp: today.AddDate(0, 0, -1),
	}))
	require.NoError(t, store.Record(ctx, ExecutionMetric{
		Action: "recipe", Model: "gpt", Outcome: OutcomeSuccess, Timestamp: today.AddDate(0, 0, -40),
	}))

	usage, err := store.GetDailyUsage(ctx, 7)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, DailyUsage{
		Date: "2024-03-10", Action: "recipe", Calls: 2,
		PromptTokens: 150, CompletionTokens: 50, AvgLatencyMS: 600,
	}, usage[0])
	assert.Equal(t, "2024-03-09", usage[1].Date)
	assert.Equal(t, "substitution", usage[1].Action)
}

func TestStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	today := store.now()

	for _, age := range []int{0, 10, 45, 90} {
		require.NoError(t, store.Record(ctx, ExecutionMetric{
			Action: "recipe", Model: "gpt", Outcome: OutcomeSuccess, Timestamp: today.AddDate(0, 0, -age),
		}))
	}

	removed, err := store.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	usage, err := store.GetDailyUsage(ctx, 365)
	require.NoError(t, err)
	assert.Len(t, usage, 2)
}
