package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"compsync/internal/core/comp"
	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/logger"
	"compsync/internal/services/employees/domain"
	"compsync/internal/services/employees/repo"
)

// Recompute reloads the record, resolves its band, and persists only the derived columns
func (s *Svc) Recompute(ctx context.Context, orgID, employeeID string) (domain.Derived, error) {
	var d domain.Derived
	err := s.inOrg(ctx, orgID, func(ctx context.Context, r repo.Repo) error {
		e, err := r.Get(ctx, orgID, employeeID)
		if err != nil {
			return err
		}
		band, err := r.ResolveBand(ctx, orgID, e.Band, e.JobArea)
		if err != nil {
			return err
		}
		d = derived(comp.Compute(e.AnnualFixed, band, e.DateOfJoining, s.cfg.Clock.Now()))
		return r.UpdateDerived(ctx, orgID, employeeID, d)
	})
	return d, err
}

func derived(c comp.Derived) domain.Derived {
	months := c.TimeInCurrentGrade
	return domain.Derived{
		CompaRatio:          c.CompaRatio,
		PayRangePenetration: c.PayRangePenetration,
		TimeInCurrentGrade:  &months,
	}
}

// RecomputeBand refreshes every active employee on code concurrently.
// Failures are collected per employee and never stop the others.
func (s *Svc) RecomputeBand(ctx context.Context, orgID, code string) domain.FanoutResult {
	log := logger.C(ctx).With().Str("band", code).Logger()

	var ids []string
	err := s.inOrg(ctx, orgID, func(ctx context.Context, r repo.Repo) (err error) {
		ids, err = r.ListActiveByBand(ctx, orgID, code)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("band recompute: list failed")
		return domain.FanoutResult{Failures: []domain.RecomputeFailure{{Message: perr.RowMessage(err)}}}
	}

	var (
		mu  sync.Mutex
		res = domain.FanoutResult{Failures: []domain.RecomputeFailure{}}
		g   errgroup.Group
	)
	g.SetLimit(s.cfg.FanoutWorkers)
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.Recompute(ctx, orgID, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, domain.RecomputeFailure{EmployeeID: id, Message: perr.RowMessage(err)})
				return nil
			}
			res.Recomputed++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].EmployeeID < res.Failures[j].EmployeeID })
	if len(res.Failures) > 0 {
		log.Warn().Int("failed", len(res.Failures)).Int("recomputed", res.Recomputed).Msg("band recompute degraded")
	} else {
		log.Info().Int("recomputed", res.Recomputed).Msg("band recompute done")
	}
	return res
}
