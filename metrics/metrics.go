package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const NAMESPACE = "oasa"

// Metrics groups the collectors of the dashboard pipeline on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Recomputations   *prometheus.CounterVec
	RecomputeSeconds prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	SnapshotRecords  prometheus.Gauge
	SnapshotVersion  prometheus.Gauge
	SnapshotReloads  *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Recomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "dashboard_recomputations_total",
			Help:      "Dashboards computed from the snapshot, by outcome.",
		}, []string{"outcome"}),
		RecomputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "dashboard_recompute_seconds",
			Help:      "Time spent filtering and aggregating one dashboard.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "dashboard_cache_lookups_total",
			Help:      "Dashboard cache lookups, by result.",
		}, []string{"result"}),
		SnapshotRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "snapshot_records",
			Help:      "Normalized records in the active snapshot.",
		}),
		SnapshotVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "snapshot_version",
			Help:      "Version of the active snapshot.",
		}),
		SnapshotReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "snapshot_reloads_total",
			Help:      "Snapshot reload attempts, by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Recomputations,
		m.RecomputeSeconds,
		m.CacheLookups,
		m.SnapshotRecords,
		m.SnapshotVersion,
		m.SnapshotReloads,
		m.HTTPRequests,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRecompute(started time.Time, outcome string) {
	m.RecomputeSeconds.Observe(time.Since(started).Seconds())
	m.Recomputations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheHit() {
	m.CacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) SnapshotLoaded(version uint64, records int) {
	m.SnapshotVersion.Set(float64(version))
	m.SnapshotRecords.Set(float64(records))
	m.SnapshotReloads.WithLabelValues("loaded").Inc()
}

func (m *Metrics) SnapshotReloadFailed() {
	m.SnapshotReloads.WithLabelValues("failed").Inc()
}

func (m *Metrics) SnapshotUnchanged() {
	m.SnapshotReloads.WithLabelValues("unchanged").Inc()
}
