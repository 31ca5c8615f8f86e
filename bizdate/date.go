// Package bizdate implements the civil calendar date kernel from §4.A: a
// pure date with no time-of-day or time-zone effects, plus business-day
// arithmetic over a pluggable holiday calendar.
package bizdate

import (
	"fmt"
	"time"
)

// DefaultFormat is the canonical wire/string format, matching the
// reference's own date package.
const DefaultFormat = "2006-01-02"

// Date represents a pure calendar day, pinned to UTC midnight.
type Date struct {
	t time.Time
}

// New constructs a Date from year/month/day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its UTC calendar day.
func FromTime(t time.Time) Date {
	t = t.UTC()
	return New(t.Year(), t.Month(), t.Day())
}

func (d Date) isPure() bool {
	return FromTime(d.t) == d
}

// Parse parses a date string in the given layout, requiring the result to
// be a pure calendar day (no residual time-of-day from a bad layout).
func Parse(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, err
	}
	d := Date{t.UTC()}
	if !d.isPure() {
		return Date{}, fmt.Errorf("bizdate: layout %q and value %q did not produce a pure date", layout, s)
	}
	return d, nil
}

// MustParse panics on a malformed string. Reserved for literals.
func MustParse(layout, s string) Date {
	d, err := Parse(layout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// testToday, when non-zero, overrides Today() for deterministic tests.
var testToday Date

// SetTestToday overrides Today() for the duration of a test. Pass the zero
// Date to clear the override.
func SetTestToday(d Date) { testToday = d }

// Today returns the current UTC calendar day, or the test override if set.
func Today() Date {
	if testToday != (Date{}) {
		return testToday
	}
	return FromTime(time.Now())
}

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

// Compare returns -1, 0, or 1 as d is before, equal to, or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	default:
		return 0
	}
}

func (d Date) String() string {
	return d.t.Format(DefaultFormat)
}

// AddDays adds (or subtracts, if negative) calendar days.
func (d Date) AddDays(n int) Date {
	nd := Date{d.t.AddDate(0, 0, n)}
	if !nd.isPure() {
		panic("bizdate: AddDays produced an impure date")
	}
	return nd
}

// AddMonths adds calendar months via time.AddDate. The day is not clamped:
// a day past the end of the target month overflows into the month after
// it (e.g. Jan 31 + 1 month = Mar 2 or Mar 3).
func (d Date) AddMonths(n int) Date {
	return Date{d.t.AddDate(0, n, 0)}
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// UTCTime exposes the underlying time.Time for interop with stdlib APIs.
func (d Date) UTCTime() time.Time { return d.t }

// FirstOfMonth returns the first calendar day of the given month.
func FirstOfMonth(year int, month time.Month) Date {
	return New(year, month, 1)
}

// LastOfMonth returns the last calendar day of the given month.
func LastOfMonth(year int, month time.Month) Date {
	return FirstOfMonth(year, month).AddMonths(1).AddDays(-1)
}
