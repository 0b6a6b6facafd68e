package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cea-hpc/phobos-dss/pkg/metrics"
)

type resolverMetrics struct {
	total *prometheus.CounterVec
}

func init() {
	metrics.RegisterResolverMetricsConstructor(newResolverMetrics)
}

func newResolverMetrics() metrics.ResolverMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &resolverMetrics{
		total: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_resolver_resolve_total",
				Help: "Total lazy_find_object calls by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (m *resolverMetrics) ObserveResolve(outcome string) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(outcome).Inc()
}
