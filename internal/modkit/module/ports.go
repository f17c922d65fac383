package module

import (
	"fmt"
	"reflect"
)

// PortSet is what a module hands back from Ports
// compsync modules return a Ports struct whose exported fields are the interfaces other modules consume
type PortSet = any

// PortsOf finds a T in a module's port set
// the set itself may implement T, or any exported field of a Ports struct (or pointer to one) may
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}

	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for bootstrap code, where a missing port is a wiring bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module: %s does not expose a %v port", m.Name(), reflect.TypeFor[T]()))
	}
	return v
}
