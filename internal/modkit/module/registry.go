package module

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the port sets of mounted modules by name
// the api root owns one per Mount so two servers in a test binary never share state
type Registry struct {
	mu    sync.RWMutex
	ports map[string]any
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{ports: map[string]any{}}
}

// Register stores the port set for name; a second module under the same name is a wiring bug
func (r *Registry) Register(name string, ports any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ports[name]; dup {
		return fmt.Errorf("module: %q registered twice", name)
	}
	r.ports[name] = ports
	return nil
}

// Names lists registered module names in order
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.ports))
	for n := range r.ports {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// PortsAs fetches the port set registered for name and asserts it to T
func PortsAs[T any](r *Registry, name string) (T, bool) {
	r.mu.RLock()
	v, ok := r.ports[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}
