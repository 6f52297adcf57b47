// Package api provides the HTTP API for the application
package api

import (
	"birdwatch/internal/platform/config"
	"birdwatch/internal/platform/logger"
	phttp "birdwatch/internal/platform/net/http"
	"birdwatch/internal/platform/store"

	"birdwatch/internal/modkit"
	"birdwatch/internal/modkit/httpkit"
	"birdwatch/internal/modkit/module"
	"birdwatch/internal/modkit/swaggerkit"

	metamod "birdwatch/internal/services/api/meta/module"
	policiesmod "birdwatch/internal/services/api/policies/module"
	tweetsmod "birdwatch/internal/services/api/tweets/module"

	// Scan pipeline module (owns the Trigger and Query ports)
	scanmod "birdwatch/internal/services/scan/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct policies first; the scan pipeline loads rule packs through it
	policies := policiesmod.New(deps)

	// Scan module owns the pipeline and exposes Trigger/Query ports
	scan := scanmod.New(deps, policies.Service())
	scanPorts := module.MustPortsOf[scanmod.Ports](scan)

	// Inject the scan ports into the tweets API module
	tweets := tweetsmod.New(
		deps,
		modkit.WithPorts(tweetsmod.Ports{
			Trigger: scanPorts.Trigger,
			Query:   scanPorts.Query,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		policies,
		scan, // include the pipeline so its ports are registered
		tweets,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
