package goboot

import "reflect"

// FrameworkReference is the reference name a component manifest must declare
// for its types to be considered during discovery. Components that never
// reference the orchestration framework cannot contribute startup services,
// so they are excluded from the scan up front.
const FrameworkReference = "goboot"

// CandidateType describes one discovered implementation: a stable name, the
// owning component, the concrete type, and the capability interfaces the
// component declares for it. Candidates are immutable once produced.
type CandidateType struct {
	Name       string
	Component  string
	Type       reflect.Type
	Interfaces []reflect.Type
	Instance   any
}

// NewCandidate builds a CandidateType for a live instance. The candidate name
// is the instance's concrete type name with any pointer indirection removed.
func NewCandidate(component string, instance any, interfaces ...reflect.Type) CandidateType {
	rt := reflect.TypeOf(instance)
	named := rt
	for named.Kind() == reflect.Ptr {
		named = named.Elem()
	}
	return CandidateType{
		Name:       named.Name(),
		Component:  component,
		Type:       rt,
		Interfaces: interfaces,
		Instance:   instance,
	}
}

// Component is an explicitly registered manifest: a name, the names of the
// modules it references, and a loader producing its candidate types. The
// loader may fail; a failing component is skipped, not fatal.
type Component struct {
	Name       string
	References []string
	Types      func() ([]CandidateType, error)
}

func (c Component) references(name string) bool {
	for _, ref := range c.References {
		if ref == name {
			return true
		}
	}
	return false
}
