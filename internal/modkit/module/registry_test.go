package module

import (
	"strconv"
	"sync"
	"testing"
)

type runnerPorts struct {
	Runner string
	Slots  int
}

func TestRegistryPortsAs(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	want := runnerPorts{Runner: "importer", Slots: 4}
	if err := r.Register("imports", want); err != nil {
		t.Fatal(err)
	}

	got, ok := PortsAs[runnerPorts](r, "imports")
	if !ok || got != want {
		t.Fatalf("PortsAs = %+v, %v", got, ok)
	}
	if _, ok := PortsAs[int](r, "imports"); ok {
		t.Fatal("type mismatch should report false")
	}
	if got, ok := PortsAs[runnerPorts](r, "bands"); ok || got != (runnerPorts{}) {
		t.Fatalf("missing name = %+v, %v", got, ok)
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register("employees", runnerPorts{Slots: 1}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("employees", runnerPorts{Slots: 2}); err == nil {
		t.Fatal("second register under the same name should fail")
	}
	got, _ := PortsAs[runnerPorts](r, "employees")
	if got.Slots != 1 {
		t.Fatalf("first registration was replaced: %+v", got)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, n := range []string{"meta", "bands", "imports", "employees"} {
		if err := r.Register(n, nil); err != nil {
			t.Fatal(err)
		}
	}
	got := r.Names()
	want := []string{"bands", "employees", "imports", "meta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names = %v", got)
		}
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register("m"+strconv.Itoa(i), runnerPorts{Slots: i})
		}()
		go func() {
			defer wg.Done()
			_, _ = PortsAs[runnerPorts](r, "m"+strconv.Itoa(i))
		}()
	}
	wg.Wait()

	if n := len(r.Names()); n != 50 {
		t.Fatalf("registered %d modules", n)
	}
}
