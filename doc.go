// Package goboot orchestrates ordered, one-time initialization of service
// components at process startup.
//
// Components contribute implementations of three capability contracts, which
// execute in three strictly ordered phases:
//
//   - SystemInitializer runs first and receives the registry to bind into.
//   - AutoInitializer runs second. Implementations are discovered from
//     component manifests and bound to their capability interface by naming
//     convention (the interface IWidgetService pairs with an implementation
//     whose name contains WidgetService), or registered explicitly with
//     BindAuto.
//   - StartupTask runs last, ascending by Order with stable ties.
//
// Execution is strictly sequential: every entry point completes before the
// next begins, and a failure anywhere aborts the remainder of the sequence.
// An Orchestrator runs exactly once; hosts should treat a run failure as
// fatal to startup and refuse to begin serving.
package goboot
