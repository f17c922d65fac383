package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"compsync/internal/services/employees/domain"
)

const org = "org-1"

func seed(m *Memory) {
	for _, k := range []string{
		"dashboard:org-1:summary", "payequity:org-1:gender", "bands:org-1:P1",
		"performance:org-1:q1", "insights:org-1:narrative", "dashboard:org-2:summary",
		"sessions:org-1:abc",
	} {
		m.Set(k, []byte("x"), 0)
	}
}

func TestAfterWriteInvalidatesAggregates(t *testing.T) {
	m := NewMemory()
	seed(m)
	f := New(m)

	out := f.AfterWrite(context.Background(), org)
	if out.Degraded() || len(out.Invalidated) != 4 {
		t.Fatalf("outcome = %+v", out)
	}
	got := strings.Join(m.Keys(), ",")
	want := "dashboard:org-2:summary,insights:org-1:narrative,sessions:org-1:abc"
	if got != want {
		t.Fatalf("keys = %s, want %s", got, want)
	}
}

func TestAfterImportExpiresInsights(t *testing.T) {
	m := NewMemory()
	seed(m)

	out := New(m).AfterImport(context.Background(), org)
	if out.Degraded() || len(out.Invalidated) != 5 || out.Invalidated[4] != "insights:org-1:*" {
		t.Fatalf("outcome = %+v", out)
	}
	for _, k := range m.Keys() {
		if strings.HasPrefix(k, "insights:org-1") {
			t.Fatalf("insight survived: %s", k)
		}
	}

	m2 := NewMemory()
	seed(m2)
	New(m2, WithInsightsTTL(time.Minute)).AfterImport(context.Background(), org)
	if ttl := m2.TTL("insights:org-1:narrative"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
}

func TestFailuresDegradeButNeverAbort(t *testing.T) {
	m := NewMemory(WithRecord())
	seed(m)
	m.Fail = func(op, target string) error {
		if target == "payequity:org-1:*" || op == "publish" {
			return errors.New("redis: connection refused")
		}
		return nil
	}
	f := New(m)

	out := f.AfterImport(context.Background(), org)
	if !out.Degraded() || len(out.Failures) != 1 || out.Failures[0].Target != "payequity:org-1:*" {
		t.Fatalf("outcome = %+v", out)
	}
	if len(out.Invalidated) != 4 {
		t.Fatalf("the other patterns should still run: %v", out.Invalidated)
	}
	f.Progress(context.Background(), org, ProgressMessage{RunID: "r1"})
	if len(m.Sent(Channel(org))) != 0 {
		t.Fatal("failed publish should not be recorded")
	}
}

func TestNotifications(t *testing.T) {
	m := NewMemory(WithRecord())
	feed := m.Subscribe(Channel(org), 4)
	f := New(m)
	ctx := context.Background()

	f.Progress(ctx, org, ProgressMessage{RunID: "r1", Processed: 10, Total: 25})
	f.Complete(ctx, org, CompleteMessage{
		RunID: "r1", Imported: 24, Failed: 1, Replaced: true,
		Errors: []domain.RowError{{Row: 7, Field: domain.GeneralField, Message: "duplicate email"}},
	})

	var p map[string]any
	if err := json.Unmarshal(<-feed, &p); err != nil {
		t.Fatal(err)
	}
	if p["type"] != TypeProgress || p["processed"] != float64(10) || p["total"] != float64(25) {
		t.Fatalf("progress = %v", p)
	}
	if errs, ok := p["errors"].([]any); !ok || len(errs) != 0 {
		t.Fatalf("progress errors should be an empty list: %v", p["errors"])
	}

	var c CompleteMessage
	if err := json.Unmarshal(<-feed, &c); err != nil {
		t.Fatal(err)
	}
	if c.Type != TypeComplete || c.Imported != 24 || !c.Replaced || c.Errors[0].Row != 7 {
		t.Fatalf("complete = %+v", c)
	}
	if len(m.Sent(Channel(org))) != 2 {
		t.Fatal("both messages should be recorded")
	}
}

func TestMemoryRecordsOnlyWhenAsked(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	feed := m.Subscribe(Channel(org), 1)
	if _, err := m.Publish(ctx, Channel(org), []byte("x")); err != nil {
		t.Fatal(err)
	}
	if got := <-feed; string(got) != "x" {
		t.Fatalf("delivered %q", got)
	}
	if len(m.Sent(Channel(org))) != 0 {
		t.Fatal("payloads kept without WithRecord")
	}
}

func TestNilBackendUsesMemory(t *testing.T) {
	f := New(nil)
	if _, ok := f.b.(*Memory); !ok {
		t.Fatalf("backend = %T", f.b)
	}
	if out := f.AfterWrite(context.Background(), org); out.Degraded() {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestNames(t *testing.T) {
	if Pattern("bands", "o") != "bands:o:*" || Channel("o") != "compsync:o:imports" {
		t.Fatal("naming changed")
	}
}
