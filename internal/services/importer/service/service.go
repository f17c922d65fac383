// Package service runs uploads through decode, canonicalize, normalize and
// repair, then hands the rows to the employees writer on a background run
package service

import (
	"context"
	"sync"
	"time"

	"compsync/internal/core/headers"
	"compsync/internal/core/repair"
	"compsync/internal/core/tabular"
	"compsync/internal/core/values"
	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/logger"
	ptime "compsync/internal/platform/time"
	empdomain "compsync/internal/services/employees/domain"
	"compsync/internal/services/fanout"
	"compsync/internal/services/importer/domain"
)

// DefaultMaxRows caps the data rows of one upload
const DefaultMaxRows = 1000

// Notifier receives cache invalidation and run notifications
type Notifier interface {
	AfterImport(ctx context.Context, orgID string) fanout.Outcome
	Progress(ctx context.Context, orgID string, msg fanout.ProgressMessage)
	Complete(ctx context.Context, orgID string, msg fanout.CompleteMessage)
}

// Config for the importer
type Config struct {
	MaxRows int
	Policy  repair.Policy
	// Retain keeps finished runs visible to Status
	Retain time.Duration
	Clock  ptime.Clock
}

// Svc implements domain.ImporterPort
type Svc struct {
	writer empdomain.WriterPort
	notify Notifier
	cfg    Config

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu   sync.Mutex
	runs map[string]*run
}

// New creates an importer. Runs live on a context owned by the service,
// not by the request that started them.
func New(writer empdomain.WriterPort, notify Notifier, cfg Config) *Svc {
	if writer == nil {
		panic("importer.Service requires a writer port")
	}
	if notify == nil {
		notify = fanout.New(nil)
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.Retain <= 0 {
		cfg.Retain = 15 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = ptime.System
	}
	if cfg.Policy.Now == nil {
		cfg.Policy.Now = cfg.Clock.Now
	}
	base, stop := context.WithCancel(context.Background())
	return &Svc{
		writer: writer,
		notify: notify,
		cfg:    cfg,
		base:   base,
		stop:   stop,
		runs:   map[string]*run{},
	}
}

// Plan is an upload that passed every run-fatal check
type Plan struct {
	Records []empdomain.EmployeeWrite
	Headers []string
	Mapped  map[string]string
	// Skipped counts functionally empty rows
	Skipped int
}

// Prepare decodes and repairs an upload without writing anything. It fails with
// INVALID_FORMAT, ROW_LIMIT_EXCEEDED or, outside replace mode, EMPTY_UPLOAD.
func (s *Svc) Prepare(req domain.Request) (Plan, error) {
	t, err := tabular.Decode(req.Data, req.ContentType)
	if err != nil {
		return Plan{}, err
	}
	if n := len(t.Rows); n > s.cfg.MaxRows {
		return Plan{}, perr.Newf(perr.ErrorCodeRowLimit, "upload has %d data rows, the limit is %d", n, s.cfg.MaxRows)
	}

	cols := headers.Detect(t.Headers)
	p := Plan{Headers: t.Headers, Mapped: headers.Mapped(cols)}
	if p.Headers == nil {
		p.Headers = []string{}
	}
	rr := s.cfg.Policy.NewRun()
	for _, row := range t.Rows {
		rec, ok := rr.Repair(values.Normalize(headers.Apply(cols, row)))
		if !ok {
			p.Skipped++
			continue
		}
		p.Records = append(p.Records, rec)
	}
	if len(p.Records) == 0 && req.Mode != domain.ModeReplace {
		return Plan{}, perr.New(perr.ErrorCodeEmptyUpload, "upload has no usable rows")
	}
	return p, nil
}

// Start validates req synchronously, then writes on a background run
func (s *Svc) Start(ctx context.Context, req domain.Request) (domain.Accepted, error) {
	if req.OrgID == "" {
		return domain.Accepted{}, perr.WithField(perr.InvalidArgf("organization is required"), "orgId")
	}
	mode, err := domain.ParseMode(string(req.Mode))
	if err != nil {
		return domain.Accepted{}, err
	}
	req.Mode = mode
	if mode == domain.ModeReplace && !req.Confirmed {
		return domain.Accepted{}, perr.WithField(perr.InvalidArgf("replace deletes every employee and must be confirmed"), "confirm")
	}

	p, err := s.Prepare(req)
	if err != nil {
		importMetrics().rejected.WithLabelValues(perr.CodeOf(err).String()).Inc()
		logger.C(ctx).Info().Err(err).Str("filename", req.Filename).Msg("upload rejected")
		return domain.Accepted{}, err
	}

	r := s.register(req.OrgID, mode, len(p.Records))
	logger.C(ctx).Info().
		Str("run_id", r.id).
		Str("mode", string(mode)).
		Str("filename", req.Filename).
		Int("rows", len(p.Records)).
		Int("skipped", p.Skipped).
		Msg("import accepted")

	s.wg.Add(1)
	go s.execute(r, p)

	return domain.Accepted{RunID: r.id, Total: len(p.Records), Headers: p.Headers, Mapped: p.Mapped}, nil
}

// Run is Start followed by Wait
func (s *Svc) Run(ctx context.Context, req domain.Request) (domain.Result, error) {
	acc, err := s.Start(ctx, req)
	if err != nil {
		return domain.Result{}, err
	}
	return s.Wait(ctx, acc.RunID)
}

func (s *Svc) execute(r *run, p Plan) {
	defer s.wg.Done()
	defer r.cancel()

	ctx := logger.WithRun(r.ctx, r.orgID, r.id)
	nctx := context.WithoutCancel(ctx)
	log := logger.C(ctx)
	m := importMetrics()
	m.active.Inc()
	defer m.active.Dec()
	started := time.Now()

	res := domain.Result{
		RunID:   r.id,
		Total:   len(p.Records),
		Skipped: p.Skipped,
		Headers: p.Headers,
		Errors:  []empdomain.RowError{},
	}

	// a run cancelled before it starts must not delete anything
	if r.mode == domain.ModeReplace && ctx.Err() == nil {
		n, err := s.writer.ReplaceAll(nctx, r.orgID)
		if err != nil {
			res.Failed = res.Total
			log.Error().Err(err).Msg("replace failed, nothing written")
			s.notify.Complete(nctx, r.orgID, completeMessage(res))
			r.finish(domain.StateFailed, res, err, s.cfg.Clock.Now())
			m.runs.WithLabelValues(string(r.mode), string(domain.StateFailed)).Inc()
			return
		}
		res.Replaced, res.Deleted = true, n
	}

	out := s.writer.WriteAll(ctx, r.orgID, p.Records, func(pr empdomain.Progress) {
		r.progress(pr)
		s.notify.Progress(nctx, r.orgID, fanout.ProgressMessage{
			RunID:     r.id,
			Processed: pr.Processed,
			Total:     pr.Total,
			Errors:    pr.Errors,
		})
	})
	res.Imported, res.Failed, res.Cancelled = out.Imported, out.Failed, out.Cancelled
	if out.Errors != nil {
		res.Errors = out.Errors
	}

	if res.Imported > 0 || res.Replaced {
		s.notify.AfterImport(nctx, r.orgID)
	}
	s.notify.Complete(nctx, r.orgID, completeMessage(res))

	state := domain.StateDone
	if res.Cancelled {
		state = domain.StateCancelled
	}
	r.finish(state, res, nil, s.cfg.Clock.Now())

	m.runs.WithLabelValues(string(r.mode), string(state)).Inc()
	m.rows.WithLabelValues("imported").Add(float64(res.Imported))
	m.rows.WithLabelValues("failed").Add(float64(res.Failed))
	m.rows.WithLabelValues("skipped").Add(float64(res.Skipped))
	m.duration.Observe(time.Since(started).Seconds())

	log.Info().
		Str("state", string(state)).
		Int("imported", res.Imported).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Bool("replaced", res.Replaced).
		Dur("took", time.Since(started)).
		Msg("import finished")
}

func completeMessage(res domain.Result) fanout.CompleteMessage {
	return fanout.CompleteMessage{
		RunID:    res.RunID,
		Imported: res.Imported,
		Failed:   res.Failed,
		Errors:   res.Errors,
		Replaced: res.Replaced,
	}
}

// Shutdown cancels every live run and waits for them to settle
func (s *Svc) Shutdown(ctx context.Context) error {
	s.stop()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
