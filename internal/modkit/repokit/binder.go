package repokit

import "fmt"

// Binder builds a repo over whatever Queryer the current unit of work holds
// services keep a Binder rather than a repo so every call runs inside the org-pinned tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a repo constructor such as repo.New to a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds b to q; a nil q means a service escaped its transaction and panics
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		var zero T
		panic(fmt.Sprintf("repokit: binding %T to a nil Queryer", zero))
	}
	return b.Bind(q)
}
