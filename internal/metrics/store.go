package metrics

import (
	"context"
	"database/sql"
	"time"

	metricsdb "kitchen-companion/internal/metrics/metrics_db"
	"kitchen-companion/internal/shared"
)

const timestampLayout = "2006-01-02 15:04:05"

// Outcomes of an AI-backed request.
const (
	OutcomeSuccess           = "success"
	OutcomeFallbackParse     = "fallback_parse"
	OutcomeFallbackRateLimit = "fallback_rate_limit"
	OutcomeProviderError     = "provider_error"
	OutcomeBlocked           = "blocked"
	OutcomeInvalid           = "invalid"
)

// ExecutionMetric records metadata for a single provider call.
type ExecutionMetric struct {
	Action           string
	Model            string
	Outcome          string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
		now:     time.Now,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	return s.queries.InsertExecutionMetric(ctx, metricsdb.InsertExecutionMetricParams{
		Action:           m.Action,
		Model:            m.Model,
		Outcome:          m.Outcome,
		PromptTokens:     int64(m.PromptTokens),
		CompletionTokens: int64(m.CompletionTokens),
		LatencyMs:        m.LatencyMS,
		Timestamp:        ts.UTC().Format(timestampLayout),
	})
}

// RecordCall records one provider call from its meta.
func (s *Store) RecordCall(ctx context.Context, meta shared.CallMeta, outcome string) error {
	return s.Record(ctx, ExecutionMetric{
		Action:           meta.Action,
		Model:            meta.Usage.Model,
		Outcome:          outcome,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
	})
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DailyUsage represents provider totals for one action on one day.
type DailyUsage struct {
	Date             string  `json:"date"`
	Action           string  `json:"action"`
	Calls            int     `json:"calls"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	AvgLatencyMS     float64 `json:"avgLatencyMs"`
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := s.now().UTC().AddDate(0, 0, -days).Format(timestampLayout)
	rows, err := s.queries.GetDailyUsage(ctx, since)
	if err != nil {
		return nil, err
	}

	results := make([]DailyUsage, 0, len(rows))
	for _, r := range rows {
		results = append(results, DailyUsage{
			Date:             r.Day,
			Action:           r.Action,
			Calls:            int(r.Calls),
			PromptTokens:     int(r.PromptTokens),
			CompletionTokens: int(r.CompletionTokens),
			AvgLatencyMS:     r.AvgLatencyMs,
		})
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays).Format(timestampLayout)
	return s.queries.CleanupExecutionMetrics(ctx, threshold)
}
