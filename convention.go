package goboot

import (
	"reflect"
	"strings"
)

// leafInterfaces returns the subset of declared interfaces that are not
// reachable through another declared interface. An interface implied by a
// more specific one is dropped; declaration order is preserved.
func leafInterfaces(declared []reflect.Type) []reflect.Type {
	leaves := make([]reflect.Type, 0, len(declared))
	for i, iface := range declared {
		if iface == nil || iface.Kind() != reflect.Interface {
			continue
		}
		implied := false
		for j, other := range declared {
			if i == j || other == nil || other.Kind() != reflect.Interface {
				continue
			}
			if other.Implements(iface) {
				implied = true
				break
			}
		}
		if !implied {
			leaves = append(leaves, iface)
		}
	}
	return leaves
}

// conventionName strips the single leading marker rune from an interface
// name: the capability IWidgetService pairs with implementations whose name
// contains WidgetService.
func conventionName(iface reflect.Type) string {
	name := iface.Name()
	runes := []rune(name)
	if len(runes) < 2 {
		return ""
	}
	return string(runes[1:])
}

// resolveConvention decides the capability interface an auto-initialize
// candidate binds to. An existing unnamed registration of the same
// implementation type is reused; otherwise the first leaf interface whose
// convention name is a substring of the candidate name is chosen. The result
// is a pure function of the candidate's declared interfaces and name.
func resolveConvention(reg Registry, cand CandidateType) (capability reflect.Type, existing bool, err error) {
	if capability, ok := reg.FindExisting(cand.Type); ok {
		return capability, true, nil
	}

	for _, iface := range leafInterfaces(cand.Interfaces) {
		if name := conventionName(iface); name != "" && strings.Contains(cand.Name, name) {
			return iface, false, nil
		}
	}

	return nil, false, &ConfigurationError{Impl: cand.Name, Component: cand.Component}
}
