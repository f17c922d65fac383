// Package module wires salary bands into the API using modkit
package module

import (
	"net/http"

	modkit "compsync/internal/modkit"
	"compsync/internal/modkit/httpkit"
	"compsync/internal/modkit/repokit"
	str "compsync/internal/platform/strings"
	"compsync/internal/services/bands/domain"
	bhttp "compsync/internal/services/bands/http"
	brepo "compsync/internal/services/bands/repo"
	bsvc "compsync/internal/services/bands/service"
)

// Module implements the bands module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	register func(httpkit.Router)

	svc bsvc.Service
}

// Ports declares the ports this module needs injected
type Ports struct {
	Calculator domain.CalculatorPort
	Cache      domain.InvalidatorPort
}

// New constructs the bands module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("bands"),
		modkit.WithPrefix("/bands"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Calculator == nil {
		panic("bands module requires the Calculator port (from services/employees)")
	}

	svc := bsvc.New(repokit.TxRunner(deps.PG), brepo.NewPG(), injected.Calculator, injected.Cache)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = adaptBandsPort{svc: svc}

	m.register = func(r httpkit.Router) { bhttp.Register(r, m.svc) }
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
