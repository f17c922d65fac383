// Package fanout invalidates cached aggregates and publishes import
// notifications after employee data changes. Failures degrade the outcome
// and are logged; they never fail the write that triggered them.
package fanout

import (
	"context"
	"encoding/json"
	"time"

	"compsync/internal/platform/logger"
	"compsync/internal/platform/store"
	"compsync/internal/services/employees/domain"
)

// cache namespaces that aggregate employee compensation
var writePatterns = []string{"dashboard", "payequity", "bands", "performance"}

// insightsNamespace holds generated narratives that must be rebuilt after an import
const insightsNamespace = "insights"

// Message types on the imports channel
const (
	TypeProgress = "import.progress"
	TypeComplete = "import.complete"
)

// Failure is one pattern or channel the backend rejected
type Failure struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Outcome reports what was invalidated. A degraded outcome is still a success.
type Outcome struct {
	Invalidated []string  `json:"invalidated"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Degraded reports whether any invalidation failed
func (o Outcome) Degraded() bool { return len(o.Failures) > 0 }

// ProgressMessage is published after every writer sub-batch
type ProgressMessage struct {
	Type      string            `json:"type"`
	RunID     string            `json:"runId"`
	Processed int               `json:"processed"`
	Total     int               `json:"total"`
	Errors    []domain.RowError `json:"errors"`
}

// CompleteMessage is published once when a run ends
type CompleteMessage struct {
	Type     string            `json:"type"`
	RunID    string            `json:"runId"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Errors   []domain.RowError `json:"errors"`
	Replaced bool              `json:"replaced"`
}

// Fanout drives a cache backend
type Fanout struct {
	b   store.Cache
	ttl time.Duration
}

// Option configures a Fanout
type Option func(*Fanout)

// WithInsightsTTL sets the ttl applied to insight keys after an import; 0 expires them at once
func WithInsightsTTL(d time.Duration) Option { return func(f *Fanout) { f.ttl = d } }

// New builds a Fanout over b; nil b falls back to an in-memory hub
func New(b store.Cache, opts ...Option) *Fanout {
	if b == nil {
		b = NewMemory()
	}
	f := &Fanout{b: b}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Pattern is the key pattern of namespace for orgID
func Pattern(namespace, orgID string) string { return namespace + ":" + orgID + ":*" }

// Channel is the pub/sub channel carrying import notifications for orgID
func Channel(orgID string) string { return "compsync:" + orgID + ":imports" }

// AfterWrite invalidates every aggregate derived from employee data
func (f *Fanout) AfterWrite(ctx context.Context, orgID string) Outcome {
	out := f.invalidate(ctx, orgID)
	report(ctx, orgID, "write", out)
	return out
}

// AfterImport is AfterWrite plus a forced expiry of generated insights
func (f *Fanout) AfterImport(ctx context.Context, orgID string) Outcome {
	out := f.invalidate(ctx, orgID)
	p := Pattern(insightsNamespace, orgID)
	if _, err := f.b.ExpireMatching(ctx, p, f.ttl); err != nil {
		out.Failures = append(out.Failures, Failure{Target: p, Message: err.Error()})
	} else {
		out.Invalidated = append(out.Invalidated, p)
	}
	report(ctx, orgID, "import", out)
	return out
}

func (f *Fanout) invalidate(ctx context.Context, orgID string) Outcome {
	var out Outcome
	for _, ns := range writePatterns {
		p := Pattern(ns, orgID)
		if _, err := f.b.DeleteMatching(ctx, p); err != nil {
			out.Failures = append(out.Failures, Failure{Target: p, Message: err.Error()})
			continue
		}
		out.Invalidated = append(out.Invalidated, p)
	}
	return out
}

func report(ctx context.Context, orgID, after string, o Outcome) {
	if !o.Degraded() {
		return
	}
	logger.C(ctx).Warn().
		Str("org_id", orgID).
		Str("after", after).
		Interface("failures", o.Failures).
		Msg("cache invalidation degraded")
}

// Progress publishes a progress message
func (f *Fanout) Progress(ctx context.Context, orgID string, msg ProgressMessage) {
	msg.Type = TypeProgress
	if msg.Errors == nil {
		msg.Errors = []domain.RowError{}
	}
	f.publish(ctx, orgID, msg)
}

// Complete publishes the completion message
func (f *Fanout) Complete(ctx context.Context, orgID string, msg CompleteMessage) {
	msg.Type = TypeComplete
	if msg.Errors == nil {
		msg.Errors = []domain.RowError{}
	}
	f.publish(ctx, orgID, msg)
}

func (f *Fanout) publish(ctx context.Context, orgID string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("notification encode failed")
		return
	}
	if _, err := f.b.Publish(ctx, Channel(orgID), payload); err != nil {
		logger.C(ctx).Warn().Err(err).Str("channel", Channel(orgID)).Msg("notification publish failed")
	}
}
