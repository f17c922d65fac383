// Package service saves salary bands and pushes the change to every employee on them
package service

import (
	"context"

	"compsync/internal/modkit/repokit"
	"compsync/internal/platform/logger"
	"compsync/internal/services/bands/domain"
	"compsync/internal/services/bands/repo"
)

// Service is the bands surface
type Service interface {
	Save(ctx context.Context, orgID string, in domain.Input) (domain.Saved, error)
	List(ctx context.Context, orgID string) ([]domain.Band, error)
}

// Svc implements Service
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	calc   domain.CalculatorPort
	cache  domain.InvalidatorPort
}

// New creates a new bands service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], calc domain.CalculatorPort, cache domain.InvalidatorPort) *Svc {
	if db == nil {
		panic("bands.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("bands.Service requires a non nil Repo binder")
	}
	if calc == nil {
		panic("bands.Service requires a calculator port")
	}
	return &Svc{db: db, binder: binder, calc: calc, cache: cache}
}

// Save upserts the band, then recomputes every active employee on its code.
// Recompute failures are reported in the result, never as an error.
func (s *Svc) Save(ctx context.Context, orgID string, in domain.Input) (domain.Saved, error) {
	b, err := in.Parse()
	if err != nil {
		return domain.Saved{}, err
	}

	var saved domain.Band
	err = repokit.InOrg(ctx, s.db, orgID, func(ctx context.Context, q repokit.Queryer) (err error) {
		saved, err = repokit.MustBind(s.binder, q).Upsert(ctx, orgID, b)
		return err
	})
	if err != nil {
		return domain.Saved{}, err
	}

	res := s.calc.RecomputeBand(ctx, orgID, saved.Code)
	out := domain.Saved{Band: saved, Recomputed: res.Recomputed, Failures: res.Failures}
	if s.cache != nil {
		out.CacheDegraded = s.cache.AfterWrite(ctx, orgID).Degraded()
	}

	logger.C(ctx).Info().
		Str("band", saved.Code).
		Str("job_area", saved.JobArea).
		Int("recomputed", out.Recomputed).
		Int("failed", len(out.Failures)).
		Msg("band saved")
	return out, nil
}

// List returns every band of the organization
func (s *Svc) List(ctx context.Context, orgID string) ([]domain.Band, error) {
	var out []domain.Band
	err := repokit.InOrg(ctx, s.db, orgID, func(ctx context.Context, q repokit.Queryer) (err error) {
		out, err = repokit.MustBind(s.binder, q).List(ctx, orgID)
		return err
	})
	if out == nil {
		out = []domain.Band{}
	}
	return out, err
}
