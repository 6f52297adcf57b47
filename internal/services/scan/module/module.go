// Package module wires the scan pipeline service and exposes its ports
package module

import (
	"birdwatch/internal/modkit"
	"birdwatch/internal/modkit/httpkit"
	"birdwatch/internal/modkit/repokit"

	"birdwatch/internal/services/scan/domain"
	"birdwatch/internal/services/scan/ingest"
	"birdwatch/internal/services/scan/repo"
	"birdwatch/internal/services/scan/service"
)

// Ports defines the scan module ports
type Ports struct {
	Trigger domain.TriggerPort
	Query   domain.QueryPort
}

// Module implements the scan module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the scan module.
// rules is the policy loader port from the policies module; it is required
// because every scan resolves its pack before any fetch starts
func New(deps modkit.Deps, rules domain.RuleSource) *Module {
	opts := FromConfig(deps.Cfg)

	storeBinder := repo.NewPG()

	var src domain.PostSource
	if opts.SampleFile != "" {
		src = ingest.NewFileSource(opts.SampleFile)
	} else {
		src = ingest.NewSource(deps)
	}
	cls := ingest.NewClassifier(deps)

	svc := service.New(
		repokit.TxRunner(deps.PG), storeBinder,
		src, cls, rules,
		deps.CH,
		service.Config{
			Concurrency: opts.Concurrency,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Trigger: svc, Query: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "scan" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes; the tweets module fronts the pipeline
func (m *Module) MountRoutes(_ httpkit.Router) {}
