package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "warroom"

type Metrics struct {
	Registry *prometheus.Registry

	BatchRuns        prometheus.Counter
	BatchItems       *prometheus.CounterVec
	BatchDuration    prometheus.Histogram
	UpstreamRequests *prometheus.CounterVec
}

// New builds the collectors on a private registry so tests can create as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		BatchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_runs_total",
			Help:      "Batch recompute runs started.",
		}),
		BatchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_clans_total",
			Help:      "Clans handled by batch recompute, by result.",
		}, []string{"result"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Wall time of a batch recompute run.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the Clash of Clans API, by endpoint and status.",
		}, []string{"endpoint", "status"}),
	}

	reg.MustRegister(
		m.BatchRuns,
		m.BatchItems,
		m.BatchDuration,
		m.UpstreamRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

var Module = fx.Provide(New)
