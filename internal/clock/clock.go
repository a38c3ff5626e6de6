// Package clock abstracts the wall clock so invoice dates can be pinned in
// tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the real time in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// New returns the system clock for fx.
func New() Clock { return System{} }

// Today formats the clock's current UTC date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().UTC().Format("2006-01-02")
}
