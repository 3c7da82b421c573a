package goboot

import (
	"context"
	"reflect"
)

// Phase identifies one of the three ordered startup stages. Phases always
// execute in declaration order: System, then Auto, then Startup.
type Phase int

const (
	// PhaseSystem runs first. System initializers prepare infrastructure the
	// other phases depend on and receive the registry to bind into.
	PhaseSystem Phase = iota
	// PhaseAuto runs second and initializes convention-bound services.
	PhaseAuto
	// PhaseStartup runs last, ascending by task order.
	PhaseStartup
)

func (p Phase) String() string {
	switch p {
	case PhaseSystem:
		return "system"
	case PhaseAuto:
		return "auto"
	case PhaseStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// Lifetime defines the sharing behavior of a registered binding.
type Lifetime string

const (
	// LifetimeSingleton shares a single instance across the application.
	LifetimeSingleton Lifetime = "singleton"
	// LifetimeTransient produces a new instance from the binding's factory
	// on each resolution.
	LifetimeTransient Lifetime = "transient"
)

// Registry is the narrow binding-store contract the orchestrator consumes.
// Container is the default implementation; hosts with their own dependency
// registry can satisfy this interface instead.
type Registry interface {
	// Register appends a binding for the capability interface. With
	// addIfAbsent set, an existing binding for the capability is kept and the
	// call is a no-op.
	Register(capability reflect.Type, impl any, lt Lifetime, addIfAbsent bool) error

	// Resolve returns the first instance bound to the capability.
	Resolve(capability reflect.Type) (any, error)

	// ResolveAll returns every instance bound to the capability in
	// registration order. An unbound capability yields an empty slice.
	ResolveAll(capability reflect.Type) ([]any, error)

	// FindExisting reports the capability under which the implementation type
	// is already registered. Named bindings do not participate.
	FindExisting(impl reflect.Type) (reflect.Type, bool)
}

// SystemInitializer runs during the System phase, before any other capability.
// Implementations must not depend on AutoInitializer or StartupTask services.
type SystemInitializer interface {
	Run(ctx context.Context, reg Registry) error
}

// AutoInitializer runs during the Auto phase. Implementations are discovered
// from component manifests and bound to their capability interface by
// convention, or registered explicitly through BindAuto.
type AutoInitializer interface {
	Initialize(ctx context.Context) error
}

// StartupTask runs during the Startup phase. Tasks execute sequentially in
// ascending Order; equal orders keep their registration order.
type StartupTask interface {
	Order() int
	Execute(ctx context.Context) error
}

// InterfaceOf captures the reflect.Type of an interface type parameter.
func InterfaceOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var (
	systemType  = InterfaceOf[SystemInitializer]()
	autoType    = InterfaceOf[AutoInitializer]()
	startupType = InterfaceOf[StartupTask]()
)
