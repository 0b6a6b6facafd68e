package metrics

import "time"

// LockMetrics observes Lock Manager (C3) operation outcomes.
type LockMetrics interface {
	// ObserveAcquire records the outcome of an Acquire/AcquireAs call for
	// one entity kind: outcome is "ok", "already_exists", or "error".
	ObserveAcquire(kind, outcome string, duration time.Duration)
	// ObserveRefresh records a Refresh attempt outcome.
	ObserveRefresh(kind, outcome string)
	// ObserveRelease records a Release attempt outcome.
	ObserveRelease(kind, outcome string)
	// ObserveClean records the number of locks removed by a Clean*
	// operation, labeled by which variant ran.
	ObserveClean(operation string, removed int)
}

// newLockMetrics is set by pkg/metrics/prometheus's init, mirroring the
// teacher's RegisterCacheMetricsConstructor indirection to avoid an
// import cycle between this package and its prometheus implementation.
var newLockMetrics func() LockMetrics

// RegisterLockMetricsConstructor installs the Prometheus constructor.
func RegisterLockMetricsConstructor(ctor func() LockMetrics) {
	newLockMetrics = ctor
}

// NewLockMetrics returns a LockMetrics, or nil when metrics are disabled.
func NewLockMetrics() LockMetrics {
	if !IsEnabled() || newLockMetrics == nil {
		return nil
	}
	return newLockMetrics()
}
