/*
Package generic provides the domain-agnostic building blocks of the timesheet engine.

PURPOSE:
  This package holds the calendar and clock arithmetic, the persistence
  boundary and the shared error vocabulary. It knows nothing about entry
  types or leave rules; those live in the timesheet package.

KEY CONCEPTS:
  - TimePoint: A calendar date, usable as a map key (time.go)
  - Period: An inclusive date range, usually one month (period.go)
  - ClockTime / Span: HH:mm values and same-day durations (clock.go)
  - Repository: Injected key-value persistence (store.go)
  - Clock: Source of "today" for date-sensitive rules

DESIGN PRINCIPLES:
  1. Purity: Nothing here reads ambient state except Today()
  2. Precision: Fractional hours use decimal.Decimal
  3. Comparability: Dates are normalized so == and map keys work

USAGE:
  month := generic.MonthPeriod(2024, time.March)
  for _, d := range month.Workdays() { ... }

  span := generic.Duration(generic.MustParseClockTime("09:00"), generic.MustParseClockTime("18:00"))
  // span.Hours == 9

SEE ALSO:
  - timesheet/: Entry rules built on these types
  - store/sqlite/: Repository implementation
*/
package generic

// Clock supplies the current calendar date.
type Clock func() TimePoint

// FixedClock returns a Clock that always reports day.
func FixedClock(day TimePoint) Clock {
	return func() TimePoint { return day }
}
