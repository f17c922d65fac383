// Package api provides the HTTP API for the application
package api

import (
	"time"

	"compsync/internal/platform/config"
	"compsync/internal/platform/logger"
	"compsync/internal/platform/metrics"
	phttp "compsync/internal/platform/net/http"
	"compsync/internal/platform/net/middleware"
	"compsync/internal/platform/store"

	"compsync/internal/modkit"
	"compsync/internal/modkit/httpkit"
	"compsync/internal/modkit/module"
	"compsync/internal/modkit/swaggerkit"

	bandsmod "compsync/internal/services/bands/module"
	empmod "compsync/internal/services/employees/module"
	"compsync/internal/services/fanout"
	importmod "compsync/internal/services/importer/module"
	metamod "compsync/internal/services/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted is what the server needs after Mount
type Mounted struct {
	Importer importmod.RunnerPort
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) Mounted {
	// JSON endpoints get a deadline; upload routes carry none
	jsonTimeout := modkit.WithMiddlewares(middleware.Timeout(
		opt.Config.Prefix("CORE_API_").MayDuration("REQUEST_TIMEOUT", 30*time.Second)))

	// shared deps for modules
	deps := modkit.Deps{
		Log:   opt.Logger,
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		Cache: opt.Store.Cache,
	}

	// employees owns persistence and the derived-field calculator
	employees := empmod.New(deps, jsonTimeout)
	emp := module.MustPortsOf[empmod.Ports](employees)

	// invalidation and notifications fall back to an in-process hub without redis
	hub := fanout.New(deps.Cache, fanout.WithInsightsTTL(
		deps.Cfg.Prefix("CORE_FANOUT_").MayDuration("INSIGHTS_TTL", 0)))

	bands := bandsmod.New(deps, jsonTimeout, modkit.WithPorts(bandsmod.Ports{
		Calculator: emp.Calculator,
		Cache:      hub,
	}))
	imports := importmod.New(deps, modkit.WithPorts(importmod.Ports{
		Writer:   emp.Writer,
		Notifier: hub,
	}))

	mods := []module.Module{
		metamod.New(deps),
		employees,
		bands,
		imports,
	}

	reg := module.NewRegistry()

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			if err := reg.Register(m.Name(), m.Ports()); err != nil {
				panic(err)
			}
			m.MountRoutes(api)
		}
	})
	r.Handle("/metrics", metrics.Handler())

	runner, ok := module.PortsAs[importmod.RunnerPort](reg, imports.Name())
	if !ok {
		panic("imports module did not register a RunnerPort")
	}
	return Mounted{Importer: runner}
}
