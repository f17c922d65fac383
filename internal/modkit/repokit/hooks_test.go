package repokit

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestWithBeginHooksRunsHooksThenFn(t *testing.T) {
	t.Parallel()

	q := &recQ{}
	inner := &fakeTxRunner{q: q}
	var seq []string
	hook := func(name string) BeginHook {
		return func(_ context.Context, got Queryer) error {
			if got != q {
				t.Fatalf("%s saw a different queryer", name)
			}
			seq = append(seq, name)
			return nil
		}
	}

	err := WithBeginHooks(inner, hook("pin"), hook("audit")).Tx(context.Background(), func(Queryer) error {
		seq = append(seq, "upsert")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"pin", "audit", "upsert"}; !reflect.DeepEqual(seq, want) {
		t.Fatalf("order = %v, want %v", seq, want)
	}
	if inner.called != 1 {
		t.Fatalf("inner tx calls = %d", inner.called)
	}
}

func TestWithBeginHooksFailingHookSkipsFn(t *testing.T) {
	t.Parallel()

	boom := errors.New("set_config failed")
	ran := false
	err := WithBeginHooks(&fakeTxRunner{q: &recQ{}},
		func(context.Context, Queryer) error { return boom },
		func(context.Context, Queryer) error { t.Fatal("later hook ran"); return nil },
	).Tx(context.Background(), func(Queryer) error { ran = true; return nil })

	if !errors.Is(err, boom) || ran {
		t.Fatalf("err=%v ran=%v", err, ran)
	}
}

func TestWithBeginHooksDelegatesOutsideTx(t *testing.T) {
	t.Parallel()

	q := &recQ{}
	r := WithBeginHooks(&fakeTxRunner{q: q}, PinOrg("org-1"))
	if _, err := r.Exec(context.Background(), "DELETE FROM employees WHERE org_id = $1", "org-1"); err != nil {
		t.Fatal(err)
	}
	// hooks only run inside Tx
	if len(q.sqls) != 1 || q.sqls[0] != "DELETE FROM employees WHERE org_id = $1" {
		t.Fatalf("execs = %v", q.sqls)
	}
}

func TestPinOrgSetsConfigBeforeFn(t *testing.T) {
	t.Parallel()

	q := &recQ{}
	err := WithBeginHooks(&fakeTxRunner{q: q}, PinOrg("org-7")).Tx(context.Background(), func(Queryer) error {
		if len(q.sqls) != 1 {
			t.Fatalf("pin should run before fn, execs=%v", q.sqls)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.sqls[0] != "SELECT set_config('app.org_id', $1, true)" {
		t.Fatalf("pin sql = %q", q.sqls[0])
	}
}
