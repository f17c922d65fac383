// Package time holds the injectable clock and small time helpers
package time

import "time"

// Clock supplies the current time
type Clock interface{ Now() time.Time }

// ClockFunc adapts a func to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// System is the wall clock in UTC
var System Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Fixed returns a clock frozen at t
func Fixed(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }

// Ptr returns &t, or nil for the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Date returns midnight UTC of the given calendar day
func Date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
