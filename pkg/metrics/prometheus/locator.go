package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cea-hpc/phobos-dss/pkg/metrics"
)

type locatorMetrics struct {
	total *prometheus.CounterVec
}

func init() {
	metrics.RegisterLocatorMetricsConstructor(newLocatorMetrics)
}

func newLocatorMetrics() metrics.LocatorMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &locatorMetrics{
		total: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "phobos_dss_locator_locate_total",
				Help: "Total medium locate calls by family and outcome",
			},
			[]string{"family", "outcome"},
		),
	}
}

func (m *locatorMetrics) ObserveLocate(family, outcome string) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(family, outcome).Inc()
}
