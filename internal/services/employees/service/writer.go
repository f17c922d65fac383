package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/logger"
	"compsync/internal/services/employees/domain"
	"compsync/internal/services/employees/repo"
)

// CancelledMessage is recorded for rows never attempted because the run was cancelled
const CancelledMessage = "import cancelled"

// ReplaceAll deletes every employee of the organization
func (s *Svc) ReplaceAll(ctx context.Context, orgID string) (int64, error) {
	var n int64
	err := s.inOrg(ctx, orgID, func(ctx context.Context, r repo.Repo) (err error) {
		n, err = r.DeleteAll(ctx, orgID)
		return err
	})
	if err == nil {
		logger.C(ctx).Warn().Int64("deleted", n).Msg("replace: existing employees removed")
	}
	return n, err
}

// WriteAll implements domain.WriterPort. Sub-batches run in input order; inside
// one, rows sharing an employee id form a lane that runs sequentially while
// distinct lanes run concurrently. Cancellation is honoured between sub-batches
// and the rows left over are reported failed, so Imported + Failed == len(rows).
//
// Two rows with different ids and the same email in one sub-batch race for the
// email; either one may be the row reported as the duplicate.
func (s *Svc) WriteAll(ctx context.Context, orgID string, rows []domain.EmployeeWrite, onBatch func(domain.Progress)) domain.WriteOutcome {
	total := len(rows)
	out := domain.WriteOutcome{Errors: []domain.RowError{}}
	emit := func(processed int) {
		if onBatch != nil {
			onBatch(domain.Progress{
				Processed: processed,
				Total:     total,
				Errors:    append([]domain.RowError{}, out.Errors...),
			})
		}
	}

	for start := 0; start < total; start += s.cfg.BatchSize {
		if ctx.Err() != nil {
			for _, w := range rows[start:] {
				out.Failed++
				out.Errors = append(out.Errors, rowError(w, CancelledMessage))
			}
			out.Cancelled = true
			logger.C(ctx).Info().Int("skipped", total-start).Msg("write cancelled")
			emit(total)
			return out
		}

		end := min(start+s.cfg.BatchSize, total)
		for i, err := range s.writeBatch(ctx, orgID, rows[start:end]) {
			if err != nil {
				out.Failed++
				out.Errors = append(out.Errors, rowError(rows[start+i], perr.RowMessage(err)))
				continue
			}
			out.Imported++
		}
		emit(end)
	}
	return out
}

func rowError(w domain.EmployeeWrite, msg string) domain.RowError {
	return domain.RowError{Row: domain.RowNumber(w.Position), Field: domain.GeneralField, Message: msg}
}

// writeBatch returns one error slot per row. An in-flight batch always
// completes, so it runs detached from the caller's cancellation.
func (s *Svc) writeBatch(ctx context.Context, orgID string, batch []domain.EmployeeWrite) []error {
	errs := make([]error, len(batch))
	wctx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for _, lane := range lanes(batch) {
		g.Go(func() error {
			for _, i := range lane {
				errs[i] = s.writeOne(wctx, orgID, batch[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// lanes groups batch indexes by employee id in first-seen order
func lanes(batch []domain.EmployeeWrite) [][]int {
	idx := make(map[string]int, len(batch))
	var out [][]int
	for i, w := range batch {
		l, ok := idx[w.EmployeeID]
		if !ok {
			l = len(out)
			idx[w.EmployeeID] = l
			out = append(out, nil)
		}
		out[l] = append(out[l], i)
	}
	return out
}

// writeOne upserts in its own transaction, then refreshes derived fields.
// A failed recompute leaves the row imported with stale metrics.
func (s *Svc) writeOne(ctx context.Context, orgID string, w domain.EmployeeWrite) error {
	err := s.inOrg(ctx, orgID, func(ctx context.Context, r repo.Repo) error {
		return r.Upsert(ctx, orgID, w)
	})
	if err != nil {
		logger.C(ctx).Debug().Err(err).Int("row", domain.RowNumber(w.Position)).Str("employee_id", w.EmployeeID).Msg("upsert failed")
		return err
	}
	if _, err := s.Recompute(ctx, orgID, w.EmployeeID); err != nil {
		logger.C(ctx).Warn().Err(err).Str("employee_id", w.EmployeeID).Msg("derived recompute failed")
	}
	return nil
}
