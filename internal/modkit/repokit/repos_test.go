package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"compsync/internal/platform/store"
)

func TestInOrg_PinsOrgInsideTx(t *testing.T) {
	t.Parallel()

	q := &recQ{}
	ftx := &fakeTxRunner{q: q}
	var seen string
	err := InOrg(context.Background(), ftx, "org-9", func(ctx context.Context, _ Queryer) error {
		seen, _ = store.OrgID(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("InOrg: %v", err)
	}
	if seen != "org-9" || ftx.called != 1 || len(q.sqls) != 1 || !strings.Contains(q.sqls[0], "app.org_id") {
		t.Fatalf("seen=%q tx=%d execs=%v", seen, ftx.called, q.sqls)
	}
	if err := InOrg(context.Background(), ftx, "", nil); !errors.Is(err, store.ErrNoOrg) {
		t.Fatalf("empty org = %v", err)
	}
}

// recQ records Exec statements
type recQ struct {
	fakeQ
	sqls []string
}

func (r *recQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.sqls = append(r.sqls, sql)
	return nil, nil
}

// fakeTxRunner records calls and forwards to the provided fn with its q
type fakeTxRunner struct {
	q      Queryer
	err    error
	called int
}

func (f *fakeTxRunner) Tx(ctx context.Context, fn func(q Queryer) error) error {
	f.called++
	if fn != nil {
		if err := fn(f.q); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeTxRunner) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	if f.q != nil {
		return f.q.Exec(ctx, sql, args...)
	}
	var z store.CommandTag
	return z, nil
}

func (f *fakeTxRunner) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	if f.q != nil {
		return f.q.Query(ctx, sql, args...)
	}
	var z store.Rows
	return z, nil
}

func (f *fakeTxRunner) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	if f.q != nil {
		return f.q.QueryRow(ctx, sql, args...)
	}
	var z store.Row
	return z
}
