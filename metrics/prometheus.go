// Package metrics exposes the Prometheus series this library emits: engine
// invocation counts/durations, the distribution of component counts a run
// produces, breaker state, and cache hit/miss counts. Each Metrics value
// owns its own registry so two hosts in one process never collide.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds a dedicated registry and the series package dispatch writes
// to. A nil *Metrics is valid everywhere it's accepted: every recording
// method is a no-op on a nil receiver, so instrumentation is opt-in.
type Metrics struct {
	registry *prometheus.Registry

	EngineInvocations *prometheus.CounterVec   // labels: engine, outcome
	EngineDuration    *prometheus.HistogramVec // labels: engine
	ComponentCount    *prometheus.HistogramVec // labels: engine
	BreakerState      *prometheus.GaugeVec     // labels: name
	CacheHits         *prometheus.CounterVec   // labels: result (hit, miss)
}

// New builds a fresh, independent registry with the Go/process collectors
// plus the SCC-specific series, namespaced under namespace (default "scc").
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "scc"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.EngineInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engine_invocations_total",
		Help:      "SCC engine invocations by engine and outcome.",
	}, []string{"engine", "outcome"})

	m.EngineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engine_duration_seconds",
		Help:      "Wall-clock duration of one engine run.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"engine"})

	m.ComponentCount = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "component_count",
		Help:      "Number of strongly connected components a run produced.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"engine"})

	m.BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "breaker_state",
		Help:      "Circuit breaker state (0: closed, 1: half-open, 2: open).",
	}, []string{"name"})

	m.CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Result-cache lookups by outcome.",
	}, []string{"result"})

	reg.MustRegister(m.EngineInvocations, m.EngineDuration, m.ComponentCount, m.BreakerState, m.CacheHits)
	return m
}

// ObserveRun records one engine invocation's outcome, duration, and the
// component count it produced (componentCount < 0 means the run failed
// before a count was available).
func (m *Metrics) ObserveRun(engine string, seconds float64, componentCount int, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.EngineInvocations.WithLabelValues(engine, outcome).Inc()
	m.EngineDuration.WithLabelValues(engine).Observe(seconds)
	if componentCount >= 0 {
		m.ComponentCount.WithLabelValues(engine).Observe(float64(componentCount))
	}
}

// SetBreakerState records the numeric gobreaker.State for name.
func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(state)
}

// ObserveCache records a cache lookup outcome ("hit" or "miss").
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(result).Inc()
}

// Handler exposes the registry for scraping, e.g. from cmd/sccbench.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
