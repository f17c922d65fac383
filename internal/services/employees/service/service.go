// Package service persists repaired employee rows and keeps their derived
// compensation metrics current
package service

import (
	"context"

	"compsync/internal/modkit/repokit"
	ptime "compsync/internal/platform/time"
	"compsync/internal/services/employees/domain"
	"compsync/internal/services/employees/repo"
)

// Config for the employees service
type Config struct {
	// BatchSize is the sub-batch length between progress events
	BatchSize int
	// Workers bounds concurrent lanes inside a sub-batch
	Workers int
	// FanoutWorkers bounds concurrent recomputes after a band edit
	FanoutWorkers int
	// Clock anchors time in current grade
	Clock ptime.Clock
}

// Service is the full employees surface
type Service interface {
	domain.WriterPort
	domain.CalculatorPort
	domain.ReaderPort
}

// Svc implements Service
type Svc struct {
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cfg    Config
}

// New creates a new employees service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("employees.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("employees.Service requires a non nil Repo binder")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.FanoutWorkers <= 0 {
		cfg.FanoutWorkers = 8
	}
	if cfg.Clock == nil {
		cfg.Clock = ptime.System
	}
	return &Svc{binder: binder, db: db, cfg: cfg}
}

// inOrg binds the repo to an org-pinned transaction
func (s *Svc) inOrg(ctx context.Context, orgID string, fn func(ctx context.Context, r repo.Repo) error) error {
	return repokit.InOrg(ctx, s.db, orgID, func(ctx context.Context, q repokit.Queryer) error {
		return fn(ctx, repokit.MustBind(s.binder, q))
	})
}

// Get returns one employee
func (s *Svc) Get(ctx context.Context, orgID, employeeID string) (domain.Employee, error) {
	var e domain.Employee
	err := s.inOrg(ctx, orgID, func(ctx context.Context, r repo.Repo) (err error) {
		e, err = r.Get(ctx, orgID, employeeID)
		return err
	})
	return e, err
}
