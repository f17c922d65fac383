package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"compsync/internal/modkit/repokit"
	"compsync/internal/platform/store"
	"compsync/internal/platform/testkit"
	"compsync/internal/services/bands/domain"
	"compsync/internal/services/bands/repo"
	empdomain "compsync/internal/services/employees/domain"
	"compsync/internal/services/fanout"
)

type tag struct{}

func (tag) String() string      { return "SELECT 1" }
func (tag) RowsAffected() int64 { return 1 }

type txq struct{ pins []string }

func (q *txq) Exec(_ context.Context, _ string, args ...any) (store.CommandTag, error) {
	q.pins = append(q.pins, args[0].(string))
	return tag{}, nil
}
func (q *txq) Query(context.Context, string, ...any) (store.Rows, error) { return nil, errors.New("unused") }
func (q *txq) QueryRow(context.Context, string, ...any) store.Row        { return nil }
func (q *txq) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	return fn(q)
}

type memRepo struct {
	saved []domain.Band
	err   error
}

func (m *memRepo) Upsert(_ context.Context, orgID string, b domain.Band) (domain.Band, error) {
	if m.err != nil {
		return domain.Band{}, m.err
	}
	b.ID, b.OrgID = "band-1", orgID
	m.saved = append(m.saved, b)
	return b, nil
}

func (m *memRepo) List(context.Context, string) ([]domain.Band, error) { return m.saved, nil }

type fakeCalc struct{ codes []string }

func (f *fakeCalc) RecomputeBand(_ context.Context, _ string, code string) empdomain.FanoutResult {
	f.codes = append(f.codes, code)
	return empdomain.FanoutResult{
		Recomputed: 3,
		Failures:   []empdomain.RecomputeFailure{{EmployeeID: "E9", Message: "row locked"}},
	}
}

type fakeCache struct {
	n   int
	out fanout.Outcome
}

func (f *fakeCache) AfterWrite(context.Context, string) fanout.Outcome { f.n++; return f.out }

const org = "7b1c0e6a-3f0e-4b5c-9d55-0a6f7d0f5a11"

func setup(m *memRepo) (*Svc, *txq, *fakeCalc, *fakeCache) {
	q := &txq{}
	calc := &fakeCalc{}
	cache := &fakeCache{}
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	return New(q, binder, calc, cache), q, calc, cache
}

func TestNewRequiresDeps(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), &fakeCalc{}, nil) })
	testkit.MustPanic(t, func() { New(&txq{}, nil, &fakeCalc{}, nil) })
	testkit.MustPanic(t, func() { New(&txq{}, repo.NewPG(), nil, nil) })
}

func TestSaveRecomputesAndInvalidates(t *testing.T) {
	m := &memRepo{}
	s, q, calc, cache := setup(m)

	out, err := s.Save(context.Background(), org, domain.Input{Code: "p1", Min: "500000", Mid: "750000", Max: "1000000"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Band.Code != "P1" || !out.Band.Mid.Equal(decimal.NewFromInt(750000)) {
		t.Fatalf("band = %+v", out.Band)
	}
	if len(calc.codes) != 1 || calc.codes[0] != "P1" {
		t.Fatalf("recompute codes = %v", calc.codes)
	}
	if out.Recomputed != 3 || len(out.Failures) != 1 || out.CacheDegraded {
		t.Fatalf("saved = %+v", out)
	}
	if cache.n != 1 {
		t.Fatalf("cache invalidations = %d", cache.n)
	}
	if len(q.pins) != 1 || q.pins[0] != org {
		t.Fatalf("org pins = %v", q.pins)
	}
}

func TestSaveReportsDegradedCache(t *testing.T) {
	m := &memRepo{}
	s, _, _, cache := setup(m)
	cache.out = fanout.Outcome{Failures: []fanout.Failure{{Target: "bands:x:*", Message: "down"}}}

	out, err := s.Save(context.Background(), org, domain.Input{Code: "M1", Min: "1", Mid: "2", Max: "3"})
	if err != nil || !out.CacheDegraded {
		t.Fatalf("out = %+v err = %v", out, err)
	}
}

func TestSaveStopsOnInvalidOrFailedWrite(t *testing.T) {
	m := &memRepo{}
	s, q, calc, _ := setup(m)

	if _, err := s.Save(context.Background(), org, domain.Input{Code: "P1", Min: "9", Mid: "2", Max: "3"}); err == nil {
		t.Fatal("invalid range should fail")
	}
	if len(q.pins) != 0 {
		t.Fatal("invalid input must not open a transaction")
	}

	m.err = errors.New("unique violation")
	if _, err := s.Save(context.Background(), org, domain.Input{Code: "P1", Min: "1", Mid: "2", Max: "3"}); err == nil {
		t.Fatal("write failure should surface")
	}
	if len(calc.codes) != 0 {
		t.Fatal("no recompute after a failed write")
	}
}

func TestListNeverNil(t *testing.T) {
	s, _, _, _ := setup(&memRepo{})
	got, err := s.List(context.Background(), org)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("List = %v %v", got, err)
	}
}
