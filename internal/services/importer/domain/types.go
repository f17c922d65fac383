// Package domain defines import requests, run state, and the terminal result
package domain

import (
	"strings"

	perr "compsync/internal/platform/errors"
	empdomain "compsync/internal/services/employees/domain"
)

// Mode selects how an upload reconciles with stored employees
type Mode string

// modes
const (
	ModeUpsert  Mode = "upsert"
	ModeReplace Mode = "replace"
)

// ParseMode reads a mode; blank is upsert
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeUpsert:
		return ModeUpsert, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", perr.WithField(perr.InvalidArgf("mode must be upsert or replace"), "mode")
}

// Request is one upload
type Request struct {
	OrgID       string
	Data        []byte
	ContentType string
	Filename    string
	Mode        Mode
	// Confirmed must be set for replace; it deletes every stored employee
	Confirmed bool
}

// State of a run
type State string

// run states
const (
	StateRunning   State = "running"
	StateDone      State = "done"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Accepted is returned once an upload passed the synchronous checks
type Accepted struct {
	RunID string `json:"runId"`
	// Total is the number of rows handed to the writer
	Total   int               `json:"total"`
	Headers []string          `json:"headers"`
	Mapped  map[string]string `json:"mapped"`
}

// Result is the terminal outcome of a run; emitted once, never persisted
type Result struct {
	RunID     string               `json:"runId"`
	Total     int                  `json:"total"`
	Imported  int                  `json:"imported"`
	Failed    int                  `json:"failed"`
	Skipped   int                  `json:"skipped"`
	Errors    []empdomain.RowError `json:"errors"`
	Replaced  bool                 `json:"replaced"`
	Deleted   int64                `json:"deleted,omitempty"`
	Headers   []string             `json:"headers"`
	Cancelled bool                 `json:"cancelled"`
}

// Status is a run as seen by a poller
type Status struct {
	RunID     string               `json:"runId"`
	OrgID     string               `json:"-"`
	State     State                `json:"state"`
	Mode      Mode                 `json:"mode"`
	Processed int                  `json:"processed"`
	Total     int                  `json:"total"`
	Errors    []empdomain.RowError `json:"errors"`
	Error     string               `json:"error,omitempty"`
	Result    *Result              `json:"result,omitempty"`
}

// Done reports whether the run reached a terminal state
func (s Status) Done() bool { return s.State != StateRunning }
