// Package module wires tweets into the API using modkit
package module

import (
	"net/http"

	modkit "birdwatch/internal/modkit"
	"birdwatch/internal/modkit/httpkit"
	str "birdwatch/internal/platform/strings"
	tweetshttp "birdwatch/internal/services/api/tweets/http"
	tweetssvc "birdwatch/internal/services/api/tweets/service"
	scandom "birdwatch/internal/services/scan/domain"
)

// Ports declares the required injected scan port(s) for this API module
type Ports struct {
	Trigger scandom.TriggerPort
	Query   scandom.QueryPort
}

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

	svc tweetssvc.Service
}

// New constructs a tweets module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("tweets"), modkit.WithPrefix("/tweets")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Trigger == nil || injected.Query == nil {
		panic("tweets API module requires Trigger and Query ports (from services/scan)")
	}

	svc := tweetssvc.New(injected.Trigger, injected.Query)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTweetsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		tweetshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

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
