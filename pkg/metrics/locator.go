package metrics

// LocatorMetrics observes Medium Locator (C5) outcomes.
type LocatorMetrics interface {
	// ObserveLocate records a locate call's outcome: "hosted", "free",
	// "no_device", "permission_denied", "operation_not_permitted", or
	// "not_found".
	ObserveLocate(family, outcome string)
}

var newLocatorMetrics func() LocatorMetrics

// RegisterLocatorMetricsConstructor installs the Prometheus constructor.
func RegisterLocatorMetricsConstructor(ctor func() LocatorMetrics) {
	newLocatorMetrics = ctor
}

// NewLocatorMetrics returns a LocatorMetrics, or nil when metrics are disabled.
func NewLocatorMetrics() LocatorMetrics {
	if !IsEnabled() || newLocatorMetrics == nil {
		return nil
	}
	return newLocatorMetrics()
}
