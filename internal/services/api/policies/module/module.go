// Package module wires policies into the API using modkit
package module

import (
	"net/http"

	modkit "birdwatch/internal/modkit"
	"birdwatch/internal/modkit/httpkit"
	str "birdwatch/internal/platform/strings"
	policieshttp "birdwatch/internal/services/api/policies/http"
	policiesrepo "birdwatch/internal/services/api/policies/repo"
	policiessvc "birdwatch/internal/services/api/policies/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc policiessvc.Service
}

// New constructs a policies module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("policies"), modkit.WithPrefix("/policies")}, opts...)...)

	o := FromConfig(deps.Cfg)
	svc := policiessvc.New(policiesrepo.NewFS(o.Dir))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPoliciesPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		policieshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the policies service for cross-module wiring
func (m *Module) Service() policiessvc.Service { return m.svc }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
