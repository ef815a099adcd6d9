package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prom holds the Prometheus collectors of the service on a private registry.
type Prom struct {
	registry *prometheus.Registry

	aiRequests      *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	providerTokens  *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewProm registers all collectors, including the Go runtime ones.
func NewProm() *Prom {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prom{
		registry: reg,
		aiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchen_ai_requests_total",
			Help: "AI-backed requests by action and outcome.",
		}, []string{"action", "outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kitchen_provider_request_duration_seconds",
			Help:    "Latency of language model provider calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"action"}),
		providerTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchen_provider_tokens_total",
			Help: "Tokens consumed at the provider.",
		}, []string{"action", "kind"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kitchen_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest counts one AI-backed request outcome.
func (p *Prom) ObserveRequest(action, outcome string) {
	p.aiRequests.WithLabelValues(action, outcome).Inc()
}

// ObserveProvider records latency and token usage of a provider call.
func (p *Prom) ObserveProvider(action string, latency time.Duration, promptTokens, completionTokens int) {
	p.providerLatency.WithLabelValues(action).Observe(latency.Seconds())
	p.providerTokens.WithLabelValues(action, "prompt").Add(float64(promptTokens))
	p.providerTokens.WithLabelValues(action, "completion").Add(float64(completionTokens))
}

// ObserveHTTP records one served HTTP request.
func (p *Prom) ObserveHTTP(method, route, status string, d time.Duration) {
	p.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prom) Registry() *prometheus.Registry {
	return p.registry
}
