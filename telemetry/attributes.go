package telemetry

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for orchestration spans.
const (
	AttrPhase          = "boot.phase"
	AttrImplementation = "boot.implementation"
	AttrOrder          = "boot.order"
	AttrComponent      = "boot.component"
	AttrCapability     = "boot.capability"
	AttrDurationMs     = "boot.duration_ms"
)

// Span and event names.
const (
	// SpanRun is the top-level span covering the whole orchestration run.
	SpanRun = "boot.run"
	// SpanInstance covers one entry-point execution.
	SpanInstance = "boot.instance"

	EventPhaseStarted   = "boot.phase.started"
	EventPhaseCompleted = "boot.phase.completed"
	EventAutoSkip       = "boot.auto.skip"
)

// PhaseName returns an attribute for the executing phase.
func PhaseName(phase string) attribute.KeyValue {
	return attribute.String(AttrPhase, phase)
}

// Implementation returns an attribute for the implementation type name.
func Implementation(name string) attribute.KeyValue {
	return attribute.String(AttrImplementation, name)
}

// Order returns an attribute for a startup task order.
func Order(order int) attribute.KeyValue {
	return attribute.Int(AttrOrder, order)
}

// Capability returns an attribute for a capability interface name.
func Capability(name string) attribute.KeyValue {
	return attribute.String(AttrCapability, name)
}

// Component returns an attribute for the owning component name.
func Component(name string) attribute.KeyValue {
	return attribute.String(AttrComponent, name)
}

// DurationMillis returns an attribute for an elapsed duration.
func DurationMillis(d time.Duration) attribute.KeyValue {
	return attribute.Int64(AttrDurationMs, d.Milliseconds())
}
