package goboot

import (
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// Scanner enumerates candidate implementation types for a capability across
// registered component manifests.
type Scanner struct {
	components   []Component
	denyPrefixes []string
	log          zerolog.Logger
}

// NewScanner creates a scanner over the given components. Components whose
// name starts with one of denyPrefixes are never scanned.
func NewScanner(components []Component, denyPrefixes []string, log zerolog.Logger) *Scanner {
	return &Scanner{
		components:   components,
		denyPrefixes: denyPrefixes,
		log:          log,
	}
}

// Scan returns every candidate whose concrete type implements the capability.
// Components are deduplicated by name (first occurrence wins), deny-listed
// and non-referencing components are excluded, and a component whose loader
// fails contributes nothing without aborting the scan. The result carries no
// ordering guarantee.
func (s *Scanner) Scan(capability reflect.Type) []CandidateType {
	var out []CandidateType
	seen := make(map[string]bool, len(s.components))

	for _, comp := range s.components {
		if seen[comp.Name] {
			continue
		}
		seen[comp.Name] = true

		if s.denied(comp.Name) || !comp.references(FrameworkReference) {
			continue
		}
		if comp.Types == nil {
			continue
		}

		candidates, err := comp.Types()
		if err != nil {
			s.log.Debug().
				Str("component", comp.Name).
				Err(err).
				Msg("skipping component, candidate types could not be loaded")
			continue
		}

		for _, cand := range candidates {
			if cand.Type != nil && cand.Type.Implements(capability) {
				out = append(out, cand)
			}
		}
	}
	return out
}

func (s *Scanner) denied(name string) bool {
	for _, prefix := range s.denyPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
