package goboot

import "fmt"

// ConfigurationError reports an auto-initialize candidate whose declared leaf
// interfaces contain no convention match. It is raised during Configure,
// before any phase executes, and is fatal to startup.
type ConfigurationError struct {
	Impl      string
	Component string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no capability interface matches implementation %s (component %s) by naming convention", e.Impl, e.Component)
}

// AlreadyInitializedError reports a second invocation of the orchestrator
// entry point. No phase re-executes.
type AlreadyInitializedError struct{}

func (e *AlreadyInitializedError) Error() string {
	return "initialization sequence has already been executed"
}

// PhaseError wraps an entry-point failure with its phase and implementation
// context. Order is only meaningful for the startup phase.
type PhaseError struct {
	Phase Phase
	Impl  string
	Order int
	Err   error
}

func (e *PhaseError) Error() string {
	if e.Phase == PhaseStartup {
		return fmt.Sprintf("%s phase failed for %s (order %d): %v", e.Phase, e.Impl, e.Order, e.Err)
	}
	return fmt.Sprintf("%s phase failed for %s: %v", e.Phase, e.Impl, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// NilServiceError represents an attempt to bind a nil implementation.
type NilServiceError struct {
	Type string
}

func (e *NilServiceError) Error() string {
	return fmt.Sprintf("nil implementation provided for capability: %s", e.Type)
}

// BindingNotFoundError represents a missing binding for a capability.
type BindingNotFoundError struct {
	Type string
}

func (e *BindingNotFoundError) Error() string {
	return fmt.Sprintf("no binding found for capability: %s", e.Type)
}

// TypeMismatchError represents an implementation that does not satisfy the
// capability it was registered under.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}
