package timesheet_test

import (
	"time"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var today = generic.MustParseDate("2024-06-15")

func newValidator() *timesheet.Validator {
	return timesheet.NewValidator(generic.FixedClock(today))
}

func date(s string) generic.TimePoint { return generic.MustParseDate(s) }

func datePtr(s string) *generic.TimePoint {
	d := generic.MustParseDate(s)
	return &d
}

func clock(s string) *generic.ClockTime {
	c := generic.MustParseClockTime(s)
	return &c
}

func working(day, start, end string) timesheet.Entry {
	return timesheet.Entry{
		Date:      date(day),
		Type:      timesheet.TypeWorkingHours,
		StartTime: clock(start),
		EndTime:   clock(end),
	}
}

func doc(name string) timesheet.Document {
	return timesheet.Document{Name: name, MediaType: "application/pdf", Size: 1024, Content: "JVBERi0="}
}

// monthOf builds a Month from entries keyed by their dates.
func monthOf(entries ...timesheet.Entry) timesheet.Month {
	m := timesheet.Month{}
	for i := range entries {
		e := entries[i]
		m[e.Date] = &e
	}
	return m
}

// fillWorkdays puts a valid working-hours entry on the first n workdays.
func fillWorkdays(year int, month time.Month, n int) timesheet.Month {
	m := timesheet.Month{}
	for i, d := range generic.MonthPeriod(year, month).Workdays() {
		if i >= n {
			break
		}
		e := working(d.String(), "09:00", "18:00")
		m[d] = &e
	}
	return m
}
