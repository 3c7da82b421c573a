package goboot

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/centraunit/goboot/metrics"
	"github.com/centraunit/goboot/telemetry"
)

// State describes where the orchestrator is in its run.
type State int

const (
	StateNotStarted State = iota
	StateRunningSystem
	StateRunningAuto
	StateRunningStartup
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunningSystem:
		return "running-system"
	case StateRunningAuto:
		return "running-auto"
	case StateRunningStartup:
		return "running-startup"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config configures an Orchestrator. The zero value is usable: an empty
// container, a disabled logger, the package tracer, and no metrics.
type Config struct {
	Registry     Registry
	Logger       zerolog.Logger
	Tracer       trace.Tracer
	Metrics      *metrics.BootMetrics
	DenyPrefixes []string
}

// Orchestrator runs the System, Auto and Startup phases exactly once, in that
// order, strictly sequentially. It owns the run guard and the auto tracking
// list; construct one per process and pass it to whichever code performs
// initialization.
type Orchestrator struct {
	reg          Registry
	log          zerolog.Logger
	tracer       trace.Tracer
	metrics      *metrics.BootMetrics
	denyPrefixes []string

	started atomic.Bool

	mu       sync.Mutex
	state    State
	tracking []reflect.Type
	tracked  map[reflect.Type]bool
}

// New creates an orchestrator from the given configuration.
func New(cfg Config) *Orchestrator {
	reg := cfg.Registry
	if reg == nil {
		reg = NewContainer()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer()
	}
	return &Orchestrator{
		reg:          reg,
		log:          cfg.Logger,
		tracer:       tracer,
		metrics:      cfg.Metrics,
		denyPrefixes: cfg.DenyPrefixes,
		state:        StateNotStarted,
		tracked:      make(map[reflect.Type]bool),
	}
}

// Registry returns the binding registry the orchestrator operates on.
func (o *Orchestrator) Registry() Registry {
	return o.reg
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Track adds a capability to the auto tracking list. Tracked capabilities are
// resolved and initialized during the Auto phase; the list is drained exactly
// once per run, whether the phase succeeds or fails.
func (o *Orchestrator) Track(capability reflect.Type) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tracked[capability] {
		return
	}
	o.tracked[capability] = true
	o.tracking = append(o.tracking, capability)
}

// Tracked returns the capabilities currently pending Auto-phase
// initialization.
func (o *Orchestrator) Tracked() []reflect.Type {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]reflect.Type, len(o.tracking))
	copy(out, o.tracking)
	return out
}

func (o *Orchestrator) clearTracking() {
	o.mu.Lock()
	o.tracking = nil
	o.tracked = make(map[reflect.Type]bool)
	o.mu.Unlock()
}

// BindAuto registers impl under capability I for Auto-phase initialization,
// bypassing convention inference. An existing binding for I is kept.
func BindAuto[I any](o *Orchestrator, impl I) error {
	capability := InterfaceOf[I]()
	if err := o.reg.Register(capability, impl, LifetimeSingleton, true); err != nil {
		return err
	}
	o.Track(capability)
	return nil
}

// Configure scans the component manifests and binds every discovered
// capability implementation: SystemInitializer and StartupTask candidates are
// registered directly, AutoInitializer candidates go through convention
// resolution. A candidate with no convention match aborts configuration with
// a ConfigurationError before any phase runs.
func (o *Orchestrator) Configure(components ...Component) error {
	scanner := NewScanner(components, o.denyPrefixes, o.log)

	for _, cand := range scanner.Scan(systemType) {
		if err := o.reg.Register(systemType, cand.Instance, LifetimeSingleton, false); err != nil {
			return err
		}
	}
	for _, cand := range scanner.Scan(startupType) {
		if err := o.reg.Register(startupType, cand.Instance, LifetimeSingleton, false); err != nil {
			return err
		}
	}
	for _, cand := range scanner.Scan(autoType) {
		capability, existing, err := resolveConvention(o.reg, cand)
		if err != nil {
			return err
		}
		if !existing {
			if err := o.reg.Register(capability, cand.Instance, LifetimeSingleton, true); err != nil {
				return err
			}
		}
		o.Track(capability)
	}
	return nil
}

// Run executes the three phases in order, awaiting each entry point before
// starting the next. It may be invoked once per orchestrator: the guard flips
// atomically on entry and a second caller gets AlreadyInitializedError
// without executing anything. A failed run cannot be retried; the auto
// tracking list is drained on every exit path and the guard stays set.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.started.CompareAndSwap(false, true) {
		return &AlreadyInitializedError{}
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, telemetry.SpanRun)
	defer span.End()

	o.log.Info().Msg("running initialization sequence")

	phases := []struct {
		phase Phase
		state State
		run   func(context.Context) error
	}{
		{PhaseSystem, StateRunningSystem, o.runSystem},
		{PhaseAuto, StateRunningAuto, o.runAuto},
		{PhaseStartup, StateRunningStartup, o.runStartup},
	}

	for _, p := range phases {
		o.setState(p.state)
		o.log.Debug().Str("phase", p.phase.String()).Msg("running initialization phase")
		span.AddEvent(telemetry.EventPhaseStarted, trace.WithAttributes(telemetry.PhaseName(p.phase.String())))

		phaseStart := time.Now()
		err := p.run(ctx)
		o.metrics.ObservePhase(p.phase.String(), time.Since(phaseStart))

		if err != nil {
			o.setState(StateFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.log.Error().Err(err).Msg("initialization sequence failed")
			o.metrics.RecordRun("failure", time.Since(start))
			return err
		}
		span.AddEvent(telemetry.EventPhaseCompleted, trace.WithAttributes(telemetry.PhaseName(p.phase.String())))
	}

	elapsed := time.Since(start)
	o.setState(StateCompleted)
	span.SetAttributes(telemetry.DurationMillis(elapsed))
	o.log.Info().Int64("duration_ms", elapsed.Milliseconds()).Msg("initialization sequence completed")
	o.metrics.RecordRun("success", elapsed)
	return nil
}

func (o *Orchestrator) runSystem(ctx context.Context) error {
	instances, err := o.reg.ResolveAll(systemType)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		init, ok := inst.(SystemInitializer)
		if !ok {
			return &PhaseError{
				Phase: PhaseSystem,
				Impl:  implName(inst),
				Err:   &TypeMismatchError{Expected: systemType.String(), Got: reflect.TypeOf(inst).String()},
			}
		}
		if err := o.execute(ctx, PhaseSystem, implName(inst), 0, func(ctx context.Context) error {
			return init.Run(ctx, o.reg)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) runAuto(ctx context.Context) error {
	// The tracking list is released on every exit path, success or failure.
	defer o.clearTracking()

	for _, capability := range o.Tracked() {
		inst, err := o.reg.Resolve(capability)
		if err != nil {
			telemetry.AddEvent(ctx, telemetry.EventAutoSkip, telemetry.Capability(capability.String()))
			o.log.Debug().Str("capability", capability.String()).Err(err).Msg("skipping tracked capability, resolution failed")
			continue
		}
		init, ok := inst.(AutoInitializer)
		if !ok {
			telemetry.AddEvent(ctx, telemetry.EventAutoSkip, telemetry.Capability(capability.String()))
			o.log.Debug().Str("capability", capability.String()).Msg("skipping tracked capability, instance is not an auto initializer")
			continue
		}
		if err := o.execute(ctx, PhaseAuto, implName(inst), 0, init.Initialize); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) runStartup(ctx context.Context) error {
	instances, err := o.reg.ResolveAll(startupType)
	if err != nil {
		return err
	}
	tasks := make([]StartupTask, 0, len(instances))
	for _, inst := range instances {
		task, ok := inst.(StartupTask)
		if !ok {
			return &PhaseError{
				Phase: PhaseStartup,
				Impl:  implName(inst),
				Err:   &TypeMismatchError{Expected: startupType.String(), Got: reflect.TypeOf(inst).String()},
			}
		}
		tasks = append(tasks, task)
	}

	// Ascending by order; equal orders keep resolution order.
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order() < tasks[j].Order() })

	for _, task := range tasks {
		if err := o.execute(ctx, PhaseStartup, implName(task), task.Order(), task.Execute); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one entry point under its own child span. The next instance
// never starts before this one has fully completed.
func (o *Orchestrator) execute(ctx context.Context, phase Phase, name string, order int, entry func(context.Context) error) error {
	attrs := []attribute.KeyValue{
		telemetry.PhaseName(phase.String()),
		telemetry.Implementation(name),
	}
	ev := o.log.Debug().Str("phase", phase.String()).Str("implementation", name)
	if phase == PhaseStartup {
		attrs = append(attrs, telemetry.Order(order))
		ev = ev.Int("order", order)
	}
	ev.Msg("running instance")

	ctx, span := o.tracer.Start(ctx, telemetry.SpanInstance, trace.WithAttributes(attrs...))
	defer span.End()

	if err := entry(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		fe := o.log.Error().Err(err).Str("phase", phase.String()).Str("implementation", name)
		if phase == PhaseStartup {
			fe = fe.Int("order", order)
		}
		fe.Msg("instance failed")
		o.metrics.RecordInstanceFailure(phase.String(), name)
		return &PhaseError{Phase: phase, Impl: name, Order: order, Err: err}
	}

	o.metrics.RecordInstance(phase.String())
	return nil
}

// implName returns the implementation's concrete type name without pointer
// indirection.
func implName(inst any) string {
	rt := reflect.TypeOf(inst)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return rt.String()
	}
	return rt.Name()
}
