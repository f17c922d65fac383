// Package module wires imports into the API using modkit
package module

import (
	"net/http"

	modkit "compsync/internal/modkit"
	"compsync/internal/modkit/httpkit"
	str "compsync/internal/platform/strings"
	ihttp "compsync/internal/services/importer/http"
	"compsync/internal/services/importer/service"
)

// Module implements the importer module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports RunnerPort

	register func(httpkit.Router)
}

// New constructs the importer module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("imports"),
		modkit.WithPrefix("/imports"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Writer == nil {
		panic("imports module requires the Writer port (from services/employees)")
	}

	svc := service.New(injected.Writer, injected.Notifier, FromConfig(deps.Cfg).Config())

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  svc,
	}

	m.register = func(r httpkit.Router) { ihttp.Register(r, m.ports) }
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

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
