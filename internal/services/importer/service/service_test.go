package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"compsync/internal/core/headers"
	"compsync/internal/core/tabular"
	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/testkit"
	ptime "compsync/internal/platform/time"
	empdomain "compsync/internal/services/employees/domain"
	"compsync/internal/services/fanout"
	"compsync/internal/services/importer/domain"
)

const org = "7b1c0e6a-3f0e-4b5c-9d55-0a6f7d0f5a11"

// fakeWriter mimics the employees writer: batches of 10, failures by employee id
type fakeWriter struct {
	mu         sync.Mutex
	calls      []string
	rows       []empdomain.EmployeeWrite
	fail       map[string]string
	hold       bool
	replaceErr error
	stored     int64
}

func (f *fakeWriter) ReplaceAll(context.Context, string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "replace")
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	n := f.stored
	f.stored = 0
	return n, nil
}

func (f *fakeWriter) WriteAll(ctx context.Context, _ string, rows []empdomain.EmployeeWrite, onBatch func(empdomain.Progress)) empdomain.WriteOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, "write")
	f.rows = append(f.rows, rows...)
	f.mu.Unlock()

	out := empdomain.WriteOutcome{Errors: []empdomain.RowError{}}
	for i, w := range rows {
		if f.hold && i == 1 {
			onBatch(empdomain.Progress{Processed: 1, Total: len(rows), Errors: out.Errors})
			<-ctx.Done()
			for _, rest := range rows[i:] {
				out.Failed++
				out.Errors = append(out.Errors, empdomain.RowError{Row: empdomain.RowNumber(rest.Position), Field: "general", Message: "import cancelled"})
			}
			out.Cancelled = true
			onBatch(empdomain.Progress{Processed: len(rows), Total: len(rows), Errors: out.Errors})
			return out
		}
		if msg, ok := f.fail[w.EmployeeID]; ok {
			out.Failed++
			out.Errors = append(out.Errors, empdomain.RowError{Row: empdomain.RowNumber(w.Position), Field: "general", Message: msg})
		} else {
			out.Imported++
			f.mu.Lock()
			f.stored++
			f.mu.Unlock()
		}
		if (i+1)%10 == 0 || i == len(rows)-1 {
			onBatch(empdomain.Progress{Processed: i + 1, Total: len(rows), Errors: append([]empdomain.RowError{}, out.Errors...)})
		}
	}
	return out
}

func (f *fakeWriter) callLog() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.calls, ",")
}

const upload = "Employee ID,Name,Email,Annual Fixed,Department\n" +
	"E1,Asha Rao,asha@acme.io,12L,Engineering\n" +
	",,,,\n" +
	"E2,Vikram Das,vik@acme.io,\"15,00,000\",Sales\n" +
	"E3,,,,Ops\n"

func newSvc(w *fakeWriter, hub *fanout.Memory, cfg Config) *Svc {
	return New(w, fanout.New(hub), cfg)
}

func req(data string, mode domain.Mode) domain.Request {
	return domain.Request{OrgID: org, Data: []byte(data), ContentType: "text/csv", Filename: "people.csv", Mode: mode}
}

func TestStartRejectsBeforeAnyWrite(t *testing.T) {
	w := &fakeWriter{}
	s := newSvc(w, fanout.NewMemory(), Config{MaxRows: 3})
	ctx := context.Background()

	before := testutil.ToFloat64(importMetrics().rejected.WithLabelValues("EMPTY_UPLOAD"))

	cases := []struct {
		name string
		req  domain.Request
		code perr.ErrorCode
	}{
		{"binary", domain.Request{OrgID: org, Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), ContentType: "image/png"}, perr.ErrorCodeInvalidFormat},
		{"legacy xls", domain.Request{OrgID: org, Data: []byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1rest")}, perr.ErrorCodeInvalidFormat},
		{"over cap", req("Name,Salary\na,1\nb,2\nc,3\nd,4\n", ""), perr.ErrorCodeRowLimit},
		{"header only", req("Employee ID,Name\n", domain.ModeUpsert), perr.ErrorCodeEmptyUpload},
		{"blank file", req("   \n", domain.ModeUpsert), perr.ErrorCodeEmptyUpload},
		{"nothing usable", req("Employee ID,Department\nE1,Ops\n", domain.ModeUpsert), perr.ErrorCodeEmptyUpload},
		{"unconfirmed replace", req(upload, domain.ModeReplace), perr.ErrorCodeInvalidArgument},
		{"bad mode", req(upload, "merge"), perr.ErrorCodeInvalidArgument},
		{"no org", domain.Request{Data: []byte(upload)}, perr.ErrorCodeInvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := s.Start(ctx, c.req)
			require.Error(t, err)
			require.Equal(t, c.code, perr.CodeOf(err), "%v", err)
		})
	}
	require.Empty(t, w.callLog(), "no write or delete may happen")
	require.Equal(t, before+3, testutil.ToFloat64(importMetrics().rejected.WithLabelValues("EMPTY_UPLOAD")))
}

func TestRunImportsAndNotifies(t *testing.T) {
	w := &fakeWriter{}
	hub := fanout.NewMemory(fanout.WithRecord())
	hub.Set("dashboard:"+org+":summary", []byte("x"), 0)
	hub.Set("insights:"+org+":narrative", []byte("x"), 0)
	s := newSvc(w, hub, Config{})
	ctx := context.Background()

	acc, err := s.Start(ctx, req(upload, ""))
	require.NoError(t, err)
	require.NotEmpty(t, acc.RunID)
	require.Equal(t, 2, acc.Total)
	require.Equal(t, []string{"Employee ID", "Name", "Email", "Annual Fixed", "Department"}, acc.Headers)
	require.Equal(t, "fullName", acc.Mapped["Name"])

	res, err := s.Wait(ctx, acc.RunID)
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Zero(t, res.Failed)
	require.Equal(t, 1, res.Skipped)
	require.False(t, res.Replaced)
	require.Equal(t, "write", w.callLog())

	require.Equal(t, "E1", w.rows[0].EmployeeID)
	require.Equal(t, "1200000", w.rows[0].AnnualFixed.String())
	require.Equal(t, "Vikram", w.rows[1].FirstName)
	require.Equal(t, "1500000", w.rows[1].AnnualFixed.String())

	require.Empty(t, hub.Keys(), "aggregates and insights are dropped")

	sent := hub.Sent(fanout.Channel(org))
	require.Len(t, sent, 2)
	var last fanout.CompleteMessage
	require.NoError(t, json.Unmarshal(sent[1], &last))
	require.Equal(t, fanout.TypeComplete, last.Type)
	require.Equal(t, acc.RunID, last.RunID)
	require.Equal(t, 2, last.Imported)

	st, err := s.Status(acc.RunID)
	require.NoError(t, err)
	require.Equal(t, domain.StateDone, st.State)
	require.Equal(t, 2, st.Processed)
	require.NotNil(t, st.Result)
}

// keyedWriter stores rows by employee id the way the upsert does
type keyedWriter struct {
	mu   sync.Mutex
	byID map[string]empdomain.EmployeeWrite
}

func (k *keyedWriter) ReplaceAll(context.Context, string) (int64, error) { return 0, nil }

func (k *keyedWriter) WriteAll(_ context.Context, _ string, rows []empdomain.EmployeeWrite, onBatch func(empdomain.Progress)) empdomain.WriteOutcome {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, w := range rows {
		k.byID[w.EmployeeID] = w
	}
	onBatch(empdomain.Progress{Processed: len(rows), Total: len(rows), Errors: []empdomain.RowError{}})
	return empdomain.WriteOutcome{Imported: len(rows), Errors: []empdomain.RowError{}}
}

func (k *keyedWriter) ids() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]string, 0, len(k.byID))
	for id := range k.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func TestReimportWithoutIDsUpdatesSameRows(t *testing.T) {
	const idless = "Name,Email,Annual Fixed\n" +
		"Asha Rao,asha@acme.io,12L\n" +
		"Vikram Das,vik@acme.io,15L\n" +
		"Asha Menon,menon@acme.io,9L\n"

	w := &keyedWriter{byID: map[string]empdomain.EmployeeWrite{}}
	s := New(w, fanout.New(fanout.NewMemory()), Config{})

	first, err := s.Run(context.Background(), req(idless, domain.ModeUpsert))
	require.NoError(t, err)
	require.Equal(t, 3, first.Imported)
	want := []string{"EMP-ASH-0001", "EMP-ASH-0003", "EMP-VIK-0002"}
	require.Equal(t, want, w.ids())

	second, err := s.Run(context.Background(), req(idless, domain.ModeUpsert))
	require.NoError(t, err)
	require.Equal(t, 3, second.Imported)
	require.Equal(t, want, w.ids(), "a second run must not mint new ids")
	require.Equal(t, "menon@acme.io", w.byID["EMP-ASH-0003"].Email)
}

func TestRowFailuresAreCounted(t *testing.T) {
	w := &fakeWriter{fail: map[string]string{"E2": "duplicate email: another employee already uses this value"}}
	s := newSvc(w, fanout.NewMemory(), Config{})

	res, err := s.Run(context.Background(), req(upload, domain.ModeUpsert))
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, res.Total, res.Imported+res.Failed)
	require.Equal(t, []empdomain.RowError{{Row: 3, Field: "general", Message: "duplicate email: another employee already uses this value"}}, res.Errors)
}

func TestReplaceWithEmptyUploadClearsOrg(t *testing.T) {
	w := &fakeWriter{stored: 7}
	s := newSvc(w, fanout.NewMemory(), Config{})

	r := req("Employee ID,Name\n", domain.ModeReplace)
	r.Confirmed = true
	res, err := s.Run(context.Background(), r)
	require.NoError(t, err)
	require.True(t, res.Replaced)
	require.EqualValues(t, 7, res.Deleted)
	require.Zero(t, res.Total)
	require.Equal(t, "replace,write", w.callLog())
}

func TestReplaceFailureWritesNothing(t *testing.T) {
	w := &fakeWriter{replaceErr: errors.New("permission denied for table employees")}
	s := newSvc(w, fanout.NewMemory(), Config{})

	r := req(upload, domain.ModeReplace)
	r.Confirmed = true
	acc, err := s.Start(context.Background(), r)
	require.NoError(t, err)

	res, err := s.Wait(context.Background(), acc.RunID)
	require.Error(t, err)
	require.Equal(t, 2, res.Failed)
	require.Equal(t, "replace", w.callLog())

	st, _ := s.Status(acc.RunID)
	require.Equal(t, domain.StateFailed, st.State)
	require.Contains(t, st.Error, "permission denied")
}

func TestCancelStopsRun(t *testing.T) {
	w := &fakeWriter{hold: true}
	s := newSvc(w, fanout.NewMemory(), Config{})
	ctx := context.Background()

	acc, err := s.Start(ctx, req(upload, ""))
	require.NoError(t, err)

	testkit.Eventually(t, 2*time.Second, func() bool {
		st, err := s.Status(acc.RunID)
		return err == nil && st.Processed == 1
	}, "run never reported progress")

	require.NoError(t, s.Cancel(acc.RunID))
	res, err := s.Wait(ctx, acc.RunID)
	require.NoError(t, err)
	require.True(t, res.Cancelled)
	require.Equal(t, res.Total, res.Imported+res.Failed)

	st, err := s.Status(acc.RunID)
	require.NoError(t, err)
	require.Equal(t, domain.StateCancelled, st.State)
	require.NoError(t, s.Cancel(acc.RunID), "cancelling a finished run is a no-op")
}

func TestShutdownCancelsLiveRuns(t *testing.T) {
	w := &fakeWriter{hold: true}
	s := newSvc(w, fanout.NewMemory(), Config{})

	acc, err := s.Start(context.Background(), req(upload, ""))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	st, err := s.Status(acc.RunID)
	require.NoError(t, err)
	require.Equal(t, domain.StateCancelled, st.State)
}

func TestUnknownRun(t *testing.T) {
	s := newSvc(&fakeWriter{}, fanout.NewMemory(), Config{})
	_, err := s.Status("nope")
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
	require.True(t, perr.IsCode(s.Cancel("nope"), perr.ErrorCodeNotFound))
	_, err = s.Wait(context.Background(), "nope")
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestWaitHonoursContext(t *testing.T) {
	w := &fakeWriter{hold: true}
	s := newSvc(w, fanout.NewMemory(), Config{})
	acc, err := s.Start(context.Background(), req(upload, ""))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Wait(ctx, acc.RunID)
	require.True(t, perr.IsCode(err, perr.ErrorCodeCancelled))
	require.NoError(t, s.Cancel(acc.RunID))
	_, _ = s.Wait(context.Background(), acc.RunID)
}

func TestFinishedRunsAreEvicted(t *testing.T) {
	var (
		mu  sync.Mutex
		now = ptime.Date(2025, time.March, 10)
	)
	clock := ptime.ClockFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})
	s := newSvc(&fakeWriter{}, fanout.NewMemory(), Config{Retain: time.Minute, Clock: clock})

	res, err := s.Run(context.Background(), req(upload, ""))
	require.NoError(t, err)
	_, err = s.Status(res.RunID)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	_, err = s.Status(res.RunID)
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestTemplateRoundTrips(t *testing.T) {
	tpl := Template()
	tbl, err := tabular.Decode(tpl, "text/csv")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	for _, c := range headers.Detect(tbl.Headers) {
		require.Equal(t, headers.KindField, c.Kind, "template header %q must map to a field", c.Header)
	}

	s := newSvc(&fakeWriter{}, fanout.NewMemory(), Config{})
	require.Equal(t, tpl, s.Template())
	p, err := s.Prepare(domain.Request{Data: tpl, ContentType: "text/csv"})
	require.NoError(t, err)
	require.Len(t, p.Records, 2)

	first := p.Records[0]
	require.Equal(t, "EMP001", first.EmployeeID)
	require.Equal(t, "1800000", first.AnnualFixed.String())
	require.Equal(t, "2022-01-15", first.DateOfJoining)
	require.Equal(t, "P2", first.Band)
	require.Empty(t, first.Defaulted)

	second := p.Records[1]
	require.Equal(t, "950000", second.AnnualFixed.String())
	require.Equal(t, "2023-06-01", second.DateOfJoining)
}
