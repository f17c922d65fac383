package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	perr "compsync/internal/platform/errors"
	empdomain "compsync/internal/services/employees/domain"
	"compsync/internal/services/importer/domain"
)

// run is one background import
type run struct {
	id     string
	orgID  string
	mode   domain.Mode
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	status   domain.Status
	err      error
	finished time.Time
}

func (s *Svc) register(orgID string, mode domain.Mode, total int) *run {
	ctx, cancel := context.WithCancel(s.base)
	r := &run{
		id:     uuid.NewString(),
		orgID:  orgID,
		mode:   mode,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.status = domain.Status{
		RunID:  r.id,
		OrgID:  orgID,
		State:  domain.StateRunning,
		Mode:   mode,
		Total:  total,
		Errors: []empdomain.RowError{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(s.cfg.Clock.Now())
	s.runs[r.id] = r
	return r
}

func (r *run) progress(p empdomain.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Processed = p.Processed
	r.status.Errors = p.Errors
}

func (r *run) finish(state domain.State, res domain.Result, err error, now time.Time) {
	r.mu.Lock()
	r.status.State = state
	r.status.Processed = res.Total
	r.status.Errors = res.Errors
	r.status.Result = &res
	if err != nil {
		r.err = err
		r.status.Error = perr.RowMessage(err)
	}
	r.finished = now
	r.mu.Unlock()
	close(r.done)
}

func (r *run) expired(now time.Time, retain time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.finished.IsZero() && now.Sub(r.finished) > retain
}

func (s *Svc) evictLocked(now time.Time) {
	for id, r := range s.runs {
		if r.expired(now, s.cfg.Retain) {
			delete(s.runs, id)
		}
	}
}

func (s *Svc) lookup(runID string) (*run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(s.cfg.Clock.Now())
	r, ok := s.runs[runID]
	if !ok {
		return nil, perr.WithField(perr.NotFoundf("import run %s not found", runID), "runId")
	}
	return r, nil
}

// Status reports the latest progress of a run, or its result once finished
func (s *Svc) Status(runID string) (domain.Status, error) {
	r, err := s.lookup(runID)
	if err != nil {
		return domain.Status{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.status
	st.Errors = append([]empdomain.RowError{}, r.status.Errors...)
	return st, nil
}

// Cancel signals a run to stop at its next sub-batch boundary. Cancelling a
// finished run is a no-op.
func (s *Svc) Cancel(runID string) error {
	r, err := s.lookup(runID)
	if err != nil {
		return err
	}
	r.cancel()
	return nil
}

// Wait blocks until the run finishes or ctx ends
func (s *Svc) Wait(ctx context.Context, runID string) (domain.Result, error) {
	r, err := s.lookup(runID)
	if err != nil {
		return domain.Result{}, err
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		return domain.Result{}, perr.Wrap(ctx.Err(), perr.ErrorCodeCancelled, "stopped waiting for import run")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.status.Result, r.err
}
