package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledMetricsAreNoOp(t *testing.T) {
	var m *BootMetrics

	require.NotPanics(t, func() {
		m.RecordRun("success", time.Second)
		m.ObservePhase("system", time.Millisecond)
		m.RecordInstance("auto")
		m.RecordInstanceFailure("startup", "Task")
	})
}

func TestNewBootMetricsRequiresRegistry(t *testing.T) {
	// Not initialized in this process yet.
	if IsEnabled() {
		t.Skip("registry already initialized by another test")
	}
	assert.Nil(t, NewBootMetrics())
}

func TestBootMetricsRecord(t *testing.T) {
	InitRegistry()
	m := NewBootMetrics()
	require.NotNil(t, m)

	m.RecordRun("success", 120*time.Millisecond)
	m.RecordRun("failure", 40*time.Millisecond)
	m.ObservePhase("system", 10*time.Millisecond)
	m.RecordInstance("system")
	m.RecordInstance("system")
	m.RecordInstanceFailure("startup", "Task")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("failure")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.instancesExecuted.WithLabelValues("system")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.instanceFailures.WithLabelValues("startup", "Task")))
}

func TestHandlerServesRegistry(t *testing.T) {
	InitRegistry()
	require.NotNil(t, Handler())
}
