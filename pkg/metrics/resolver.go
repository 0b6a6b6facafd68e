package metrics

// ResolverMetrics observes Version Resolver (C4) outcomes.
type ResolverMetrics interface {
	// ObserveResolve records a lazy_find_object call's outcome: "live",
	// "deprecated", "ambiguous", or "not_found".
	ObserveResolve(outcome string)
}

var newResolverMetrics func() ResolverMetrics

// RegisterResolverMetricsConstructor installs the Prometheus constructor.
func RegisterResolverMetricsConstructor(ctor func() ResolverMetrics) {
	newResolverMetrics = ctor
}

// NewResolverMetrics returns a ResolverMetrics, or nil when metrics are disabled.
func NewResolverMetrics() ResolverMetrics {
	if !IsEnabled() || newResolverMetrics == nil {
		return nil
	}
	return newResolverMetrics()
}
