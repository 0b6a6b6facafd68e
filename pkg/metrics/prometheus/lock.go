package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cea-hpc/phobos-dss/pkg/metrics"
)

type lockMetrics struct {
	acquireTotal    *prometheus.CounterVec
	acquireDuration *prometheus.HistogramVec
	refreshTotal    *prometheus.CounterVec
	releaseTotal    *prometheus.CounterVec
	cleanRemoved    *prometheus.CounterVec
}

func init() {
	metrics.RegisterLockMetricsConstructor(newLockMetrics)
}

func newLockMetrics() metrics.LockMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &lockMetrics{
		acquireTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_lock_acquire_total",
				Help: "Total lock acquire attempts by entity kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		acquireDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phobos_dss_lock_acquire_duration_seconds",
				Help:    "Duration of lock acquire calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		refreshTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_lock_refresh_total",
				Help: "Total lock refresh attempts by entity kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		releaseTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_lock_release_total",
				Help: "Total lock release attempts by entity kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		cleanRemoved: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_lock_clean_removed_total",
				Help: "Total locks removed by Clean* operations",
			},
			[]string{"operation"},
		),
	}
}

func (m *lockMetrics) ObserveAcquire(kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.acquireTotal.WithLabelValues(kind, outcome).Inc()
	m.acquireDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *lockMetrics) ObserveRefresh(kind, outcome string) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *lockMetrics) ObserveRelease(kind, outcome string) {
	if m == nil {
		return
	}
	m.releaseTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *lockMetrics) ObserveClean(operation string, removed int) {
	if m == nil {
		return
	}
	m.cleanRemoved.WithLabelValues(operation).Add(float64(removed))
}
