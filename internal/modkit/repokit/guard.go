package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarder is anything that can prove its backends answer, such as *store.Store
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard gives st up to timeout to answer and panics otherwise
// the api calls it before listening so an unreachable postgres or redis fails the boot, not the first import
func MustGuard(ctx context.Context, st Guarder, timeout time.Duration) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("startup guard: %w", err))
	}
}
