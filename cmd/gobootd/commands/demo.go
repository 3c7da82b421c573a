package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	goboot "github.com/centraunit/goboot"
)

// Demo services exercised by `gobootd run`. They stand in for real
// infrastructure so the daemon demonstrates a complete three-phase run.

// ISettingsCache is the capability the cache service binds to by convention.
type ISettingsCache interface {
	Lookup(key string) (string, bool)
}

// SettingsCache warms a small settings table during the Auto phase.
type SettingsCache struct {
	Log zerolog.Logger

	entries map[string]string
}

func (c *SettingsCache) Lookup(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *SettingsCache) Initialize(ctx context.Context) error {
	c.entries = map[string]string{
		"greeting": "hello",
		"locale":   "en-US",
	}
	c.Log.Info().Int("entries", len(c.entries)).Msg("settings cache warmed")
	return nil
}

// schemaInitializer simulates schema preparation during the System phase.
type schemaInitializer struct {
	log zerolog.Logger
}

func (s *schemaInitializer) Run(ctx context.Context, reg goboot.Registry) error {
	s.log.Info().Msg("schema prepared")
	return nil
}

// readinessProbe is a StartupTask verifying a dependency before serving.
type readinessProbe struct {
	log   zerolog.Logger
	name  string
	order int
	delay time.Duration
}

func (p *readinessProbe) Order() int {
	return p.order
}

func (p *readinessProbe) Execute(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.log.Info().Str("probe", p.name).Int("order", p.order).Msg("readiness probe passed")
	return nil
}

// demoComponents returns the component manifests gobootd orchestrates.
func demoComponents(log zerolog.Logger) []goboot.Component {
	return []goboot.Component{
		{
			Name:       "demo.settings",
			References: []string{goboot.FrameworkReference},
			Types: func() ([]goboot.CandidateType, error) {
				return []goboot.CandidateType{
					goboot.NewCandidate("demo.settings", &SettingsCache{Log: log},
						goboot.InterfaceOf[ISettingsCache](),
					),
				}, nil
			},
		},
		{
			Name:       "demo.database",
			References: []string{goboot.FrameworkReference},
			Types: func() ([]goboot.CandidateType, error) {
				return []goboot.CandidateType{
					goboot.NewCandidate("demo.database", &schemaInitializer{log: log}),
				}, nil
			},
		},
		{
			Name:       "demo.probes",
			References: []string{goboot.FrameworkReference},
			Types: func() ([]goboot.CandidateType, error) {
				return []goboot.CandidateType{
					goboot.NewCandidate("demo.probes", &readinessProbe{log: log, name: "config", order: 1}),
					goboot.NewCandidate("demo.probes", &readinessProbe{log: log, name: "upstream", order: 10, delay: 50 * time.Millisecond}),
				}, nil
			},
		},
	}
}
