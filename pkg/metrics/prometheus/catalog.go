package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cea-hpc/phobos-dss/pkg/metrics"
)

type catalogMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

func init() {
	metrics.RegisterCatalogMetricsConstructor(newCatalogMetrics)
}

func newCatalogMetrics() metrics.CatalogMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &catalogMetrics{
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phobos_dss_catalog_operation_duration_seconds",
				Help:    "Duration of entity store operations by entity kind and verb",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "verb"},
		),
		total: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_catalog_operation_total",
				Help: "Total entity store operations by entity kind, verb and outcome",
			},
			[]string{"kind", "verb", "outcome"},
		),
	}
}

func (m *catalogMetrics) ObserveOperation(kind, verb, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(kind, verb).Observe(duration.Seconds())
	m.total.WithLabelValues(kind, verb, outcome).Inc()
}
