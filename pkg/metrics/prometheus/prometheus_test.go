package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cea-hpc/phobos-dss/pkg/metrics"
)

func TestLockMetricsRecordsWithoutPanicking(t *testing.T) {
	metrics.InitRegistry()

	m := metrics.NewLockMetrics()
	require.NotNil(t, m)

	m.ObserveAcquire("medium", "ok", 10*time.Millisecond)
	m.ObserveRefresh("medium", "ok")
	m.ObserveRelease("medium", "not_locked")
	m.ObserveClean("clean_all", 3)
}

func TestCatalogMetricsRecordsWithoutPanicking(t *testing.T) {
	metrics.InitRegistry()

	m := metrics.NewCatalogMetrics()
	require.NotNil(t, m)
	m.ObserveOperation("object", "get", "ok", 5*time.Millisecond)
}

func TestResolverAndLocatorMetrics(t *testing.T) {
	metrics.InitRegistry()

	r := metrics.NewResolverMetrics()
	require.NotNil(t, r)
	r.ObserveResolve("live")

	l := metrics.NewLocatorMetrics()
	require.NotNil(t, l)
	l.ObserveLocate("tape", "hosted")
}
