package bizdate

import "time"

// Calendar decides whether a given Date is a business day. §9 notes that a
// full B3 holiday calendar is not required of this core — a weekend-only
// calendar is an acceptable default, with a pluggable interface so a host
// application can inject a complete holiday table.
type Calendar interface {
	IsBusinessDay(d Date) bool
}

// WeekendCalendar treats Saturday and Sunday as non-business days and
// every other day as a business day. This is the default calendar used
// when none is injected, per §9's minimal-weekend-only allowance.
type WeekendCalendar struct{}

func (WeekendCalendar) IsBusinessDay(d Date) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// HolidayCalendar wraps another Calendar and additionally excludes an
// explicit set of holiday dates, so a host can supply a full B3 calendar
// without the engine needing to carry one.
type HolidayCalendar struct {
	Base     Calendar
	Holidays map[Date]bool
}

func NewHolidayCalendar(base Calendar, holidays []Date) *HolidayCalendar {
	set := make(map[Date]bool, len(holidays))
	for _, h := range holidays {
		set[h] = true
	}
	return &HolidayCalendar{Base: base, Holidays: set}
}

func (c *HolidayCalendar) IsBusinessDay(d Date) bool {
	if c.Holidays[d] {
		return false
	}
	if c.Base == nil {
		return WeekendCalendar{}.IsBusinessDay(d)
	}
	return c.Base.IsBusinessDay(d)
}

// NextBusinessDay returns the next business day strictly after d
// (inclusive callers should check IsBusinessDay(d) themselves first).
func NextBusinessDay(d Date, cal Calendar) Date {
	if cal == nil {
		cal = WeekendCalendar{}
	}
	next := d.AddDays(1)
	for !cal.IsBusinessDay(next) {
		next = next.AddDays(1)
	}
	return next
}

// AddBusinessDays advances d by n business days (settlement T+n), using
// cal (or the default weekend-only calendar) to skip non-business days.
// Used for settlement_date = trade_date + settlement_days (§6.5).
func AddBusinessDays(d Date, n int, cal Calendar) Date {
	if cal == nil {
		cal = WeekendCalendar{}
	}
	cur := d
	for i := 0; i < n; i++ {
		cur = NextBusinessDay(cur, cal)
	}
	return cur
}

// LastBusinessDayOfMonth returns the last business day on or before the
// last calendar day of the given month, used for DARF due dates (§4.F.7:
// "due_date = last_business_day(month+1)").
func LastBusinessDayOfMonth(year int, month time.Month, cal Calendar) Date {
	if cal == nil {
		cal = WeekendCalendar{}
	}
	d := LastOfMonth(year, month)
	for !cal.IsBusinessDay(d) {
		d = d.AddDays(-1)
	}
	return d
}
