// Package metrics exposes reconciliation counters on a private prometheus
// registry, fed through the ProgressSink port so the core engine stays
// metrics-free.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

type BatchMetrics struct {
	registry *prometheus.Registry
	service  string

	pairsTotal    *prometheus.CounterVec
	pairDuration  *prometheus.HistogramVec
	pairsInFlight prometheus.Gauge

	mu       sync.Mutex
	startsAt map[string]time.Time
}

func NewBatchMetrics(service string) *BatchMetrics {
	registry := prometheus.NewRegistry()

	pairsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claims",
			Subsystem: "batch",
			Name:      "pairs_total",
			Help:      "Processed claim pairs by final status.",
		},
		[]string{"service", "status"},
	)
	pairDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "claims",
			Subsystem: "batch",
			Name:      "pair_duration_seconds",
			Help:      "Per-pair processing duration in seconds by final status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	pairsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "claims",
			Subsystem: "batch",
			Name:      "pairs_in_flight",
			Help:      "Claim pairs currently being extracted and compared.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(pairsTotal, pairDuration, pairsInFlight)

	return &BatchMetrics{
		registry:      registry,
		service:       service,
		pairsTotal:    pairsTotal,
		pairDuration:  pairDuration,
		pairsInFlight: pairsInFlight,
		startsAt:      make(map[string]time.Time),
	}
}

// Handler serves the registry for scraping; the CLI mounts it only when a
// metrics port is configured.
func (m *BatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *BatchMetrics) PairStarted(key string, _, _ int) {
	m.pairsInFlight.Inc()
	m.mu.Lock()
	m.startsAt[key] = time.Now()
	m.mu.Unlock()
}

func (m *BatchMetrics) PairFinished(key string, status domain.PairStatus) {
	m.pairsInFlight.Dec()

	m.mu.Lock()
	startedAt, ok := m.startsAt[key]
	delete(m.startsAt, key)
	m.mu.Unlock()

	m.pairsTotal.WithLabelValues(m.service, string(status)).Inc()
	if ok {
		m.pairDuration.WithLabelValues(m.service, string(status)).Observe(time.Since(startedAt).Seconds())
	}
}
