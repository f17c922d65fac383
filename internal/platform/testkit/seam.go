package testkit

import (
	"sync"
	"testing"
)

// seams are package-level function variables (pool openers, doc readers) that tests replace
var (
	seamMu sync.Mutex

	holderMu sync.Mutex
	holder   *testing.T
)

// Serial holds the seam lock until t finishes; calling it again from the same test is a no-op
func Serial(t *testing.T) {
	t.Helper()
	holderMu.Lock()
	held := holder == t
	holderMu.Unlock()
	if held {
		return
	}

	seamMu.Lock()
	holderMu.Lock()
	holder = t
	holderMu.Unlock()
	t.Cleanup(func() {
		holderMu.Lock()
		holder = nil
		holderMu.Unlock()
		seamMu.Unlock()
	})
}

// Swap replaces *target for the rest of the test under the seam lock and restores it on cleanup
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	Serial(t)
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}
