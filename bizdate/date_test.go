package bizdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	rq := require.New(t)
	d, err := Parse(DefaultFormat, "2022-11-22")
	rq.NoError(err)
	rq.Equal("2022-11-22", d.String())
	rq.Equal(2022, d.Year())
}

func TestAddDays(t *testing.T) {
	rq := require.New(t)
	d := New(2024, time.March, 1)
	rq.Equal("2024-03-06", d.AddDays(5).String())
	rq.Equal("2024-02-25", d.AddDays(-5).String())
}

func TestWeekendCalendarSettlement(t *testing.T) {
	rq := require.New(t)
	// 2024-08-02 is a Friday; T+2 calendar should land on Tuesday.
	friday := New(2024, time.August, 2)
	settle := AddBusinessDays(friday, 2, WeekendCalendar{})
	rq.Equal("2024-08-06", settle.String())
}

func TestHolidayCalendar(t *testing.T) {
	rq := require.New(t)
	holiday := New(2024, time.August, 5) // Monday
	cal := NewHolidayCalendar(WeekendCalendar{}, []Date{holiday})
	friday := New(2024, time.August, 2)
	settle := AddBusinessDays(friday, 1, cal)
	rq.Equal("2024-08-06", settle.String())
}

func TestLastBusinessDayOfMonth(t *testing.T) {
	rq := require.New(t)
	// 2024-03-31 is a Sunday.
	d := LastBusinessDayOfMonth(2024, time.March, WeekendCalendar{})
	rq.Equal("2024-03-29", d.String())
}

func TestTodayOverride(t *testing.T) {
	rq := require.New(t)
	SetTestToday(New(2026, time.January, 1))
	defer SetTestToday(Date{})
	rq.Equal("2026-01-01", Today().String())
}
