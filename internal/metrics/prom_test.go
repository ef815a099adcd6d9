package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, p *Prom, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := p.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestProm(t *testing.T) {
	p := NewProm()

	p.ObserveRequest("recipe", OutcomeSuccess)
	p.ObserveRequest("recipe", OutcomeSuccess)
	p.ObserveRequest("recipe", OutcomeBlocked)
	p.ObserveProvider("recipe", 1200*time.Millisecond, 100, 30)
	p.ObserveHTTP("GET", "/api/health", "200", 3*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, p, "kitchen_ai_requests_total", map[string]string{"action": "recipe", "outcome": OutcomeSuccess}))
	assert.Equal(t, 1.0, counterValue(t, p, "kitchen_ai_requests_total", map[string]string{"action": "recipe", "outcome": OutcomeBlocked}))
	assert.Equal(t, 30.0, counterValue(t, p, "kitchen_provider_tokens_total", map[string]string{"action": "recipe", "kind": "completion"}))

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `kitchen_ai_requests_total{action="recipe",outcome="success"} 2`)
	assert.Contains(t, string(body), "kitchen_http_request_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
