package metrics

import "time"

// CatalogMetrics observes Entity Store (C2) and Log Store (C6)
// operation durations and outcomes, labeled by entity kind and verb
// (get/list/insert/update/delete/move/append).
type CatalogMetrics interface {
	// ObserveOperation records one catalog call's duration and outcome
	// ("ok" or "error").
	ObserveOperation(kind, verb, outcome string, duration time.Duration)
}

var newCatalogMetrics func() CatalogMetrics

// RegisterCatalogMetricsConstructor installs the Prometheus constructor.
func RegisterCatalogMetricsConstructor(ctor func() CatalogMetrics) {
	newCatalogMetrics = ctor
}

// NewCatalogMetrics returns a CatalogMetrics, or nil when metrics are disabled.
func NewCatalogMetrics() CatalogMetrics {
	if !IsEnabled() || newCatalogMetrics == nil {
		return nil
	}
	return newCatalogMetrics()
}
