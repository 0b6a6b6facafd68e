// Package metrics defines the optional Prometheus-backed observability
// surface for the Lock Manager, Entity Store, Resolver and Locator.
// Every New*Metrics constructor returns a nil interface when metrics are
// disabled. The recorder methods in pkg/metrics/prometheus are no-ops on
// a nil receiver pointer, but calling a method on the nil interface value
// itself panics.
package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.Mutex
	reg      *prometheus.Registry
	enabled  atomic.Bool
)

// InitRegistry creates and installs a fresh Prometheus registry,
// enabling metrics collection for the process. Safe to call once at
// startup; returns the registry so callers can mount its HTTP handler.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()

	reg = prometheus.NewRegistry()
	enabled.Store(true)
	return reg
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return enabled.Load()
}

// GetRegistry returns the active registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return reg
}

// reset is a test-only helper that clears registry state between cases.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = nil
	enabled.Store(false)
}
