// Package module wires employees into the API using modkit
package module

import (
	"net/http"

	modkit "compsync/internal/modkit"
	"compsync/internal/modkit/httpkit"
	"compsync/internal/modkit/repokit"
	str "compsync/internal/platform/strings"
	emphttp "compsync/internal/services/employees/http"
	"compsync/internal/services/employees/repo"
	"compsync/internal/services/employees/service"
)

// Module implements the employees module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	register func(httpkit.Router)

	svc service.Service
}

// New constructs the employees module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("employees"), modkit.WithPrefix("/employees")}, opts...)...)
	o := FromConfig(deps.Cfg)

	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), service.Config{
		BatchSize:     o.BatchSize,
		Workers:       o.Workers,
		FanoutWorkers: o.FanoutWorkers,
	})

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = newPorts(svc)

	m.register = func(r httpkit.Router) { emphttp.Register(r, m.ports.Reader) }
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
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
