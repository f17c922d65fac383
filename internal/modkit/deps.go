// Package modkit provides module wiring and core deps
package modkit

import (
	"compsync/internal/modkit/repokit"
	"compsync/internal/platform/config"
	"compsync/internal/platform/logger"
	"compsync/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	Cache store.Cache
}

// Logger returns Log, or the named root logger when Log is unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("component", component).Logger()
		return &l
	}
	return logger.Named(component)
}
