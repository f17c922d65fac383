package fanout

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process cache and pub/sub hub with the same surface as the
// redis client. Patterns follow redis glob rules as far as path.Match does.
type Memory struct {
	mu   sync.Mutex
	keys map[string]memEntry
	subs map[string][]chan []byte
	sent map[string][][]byte
	rec  bool
	now  func() time.Time

	// Fail, when set, can reject an operation on target
	Fail func(op, target string) error
}

type memEntry struct {
	val    []byte
	expiry time.Time
}

// MemoryOption configures a Memory hub
type MemoryOption func(*Memory)

// WithRecord keeps every published payload for Sent. Off by default so a
// long-lived hub does not grow with each message.
func WithRecord() MemoryOption {
	return func(m *Memory) { m.rec = true }
}

// NewMemory returns an empty hub
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		keys: map[string]memEntry{},
		subs: map[string][]chan []byte{},
		sent: map[string][][]byte{},
		now:  time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Set stores key with an optional ttl
func (m *Memory) Set(key string, val []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memEntry{val: val}
	if ttl > 0 {
		e.expiry = m.now().Add(ttl)
	}
	m.keys[key] = e
}

// Keys lists live keys in order
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.keys))
	for k, e := range m.keys {
		if m.live(e) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// TTL returns the remaining ttl of key; 0 means no expiry or missing
func (m *Memory) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.keys[key]
	if !ok || e.expiry.IsZero() {
		return 0
	}
	return e.expiry.Sub(m.now())
}

func (m *Memory) live(e memEntry) bool { return e.expiry.IsZero() || m.now().Before(e.expiry) }

func (m *Memory) fail(op, target string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail(op, target)
}

func (m *Memory) match(pattern string) []string {
	var out []string
	for k := range m.keys {
		if ok, _ := path.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	return out
}

// DeleteMatching removes keys matching pattern
func (m *Memory) DeleteMatching(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete", pattern); err != nil {
		return 0, err
	}
	var n int64
	for _, k := range m.match(pattern) {
		delete(m.keys, k)
		n++
	}
	return n, nil
}

// ExpireMatching sets ttl on keys matching pattern; ttl <= 0 deletes them
func (m *Memory) ExpireMatching(ctx context.Context, pattern string, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return m.DeleteMatching(ctx, pattern)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("expire", pattern); err != nil {
		return 0, err
	}
	var n int64
	for _, k := range m.match(pattern) {
		e := m.keys[k]
		e.expiry = m.now().Add(ttl)
		m.keys[k] = e
		n++
	}
	return n, nil
}

// Publish records payload when recording and delivers it to subscribers without blocking
func (m *Memory) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("publish", channel); err != nil {
		return 0, err
	}
	if m.rec {
		m.sent[channel] = append(m.sent[channel], payload)
	}
	var n int64
	for _, ch := range m.subs[channel] {
		select {
		case ch <- payload:
			n++
		default:
		}
	}
	return n, nil
}

// Subscribe returns a buffered feed of channel
func (m *Memory) Subscribe(channel string, buf int) <-chan []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan []byte, buf)
	m.subs[channel] = append(m.subs[channel], ch)
	return ch
}

// Sent returns every payload published on channel; empty unless WithRecord
func (m *Memory) Sent(channel string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.sent[channel]...)
}
