package generic

import "time"

// =============================================================================
// PERIOD - A closed range of calendar dates
// =============================================================================

// Period is the inclusive date range [Start, End].
// A timesheet always covers exactly one calendar month; see MonthPeriod.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// MonthPeriod returns the period covering every day of year/month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Workdays returns the Monday..Friday days of the period.
// Public holidays are not known here; they arrive as explicit day-off entries.
func (p Period) Workdays() []TimePoint {
	var days []TimePoint
	for _, d := range p.Days() {
		if d.IsWorkday() {
			days = append(days, d)
		}
	}
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
