package timesheet

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// MONTH COMPLETION
// =============================================================================

// WorkingDays returns every Monday..Friday date of year/month.
// Holidays are not subtracted: they are recorded as day-off entries and so
// already count as filled.
func WorkingDays(year int, month time.Month) []generic.TimePoint {
	return generic.MonthPeriod(year, month).Workdays()
}

// Completion describes how much of a month's working days carry an entry.
type Completion struct {
	WorkingDays int
	Filled      int
	Rate        decimal.Decimal
}

// Percent returns the rate as a whole-number percentage, rounded down.
func (c Completion) Percent() int64 {
	return c.Rate.Mul(decimal.NewFromInt(100)).Floor().IntPart()
}

// CompletionRate counts working days of year/month that hold a non-nil entry
// and divides by the number of working days. Validity of the entries is
// checked separately by IncompleteEntries.
func CompletionRate(entries Month, year int, month time.Month) (Completion, error) {
	days := WorkingDays(year, month)
	if len(days) == 0 {
		return Completion{}, generic.ErrNoWorkingDays
	}

	filled := 0
	for _, d := range days {
		if entries[d] != nil {
			filled++
		}
	}

	return Completion{
		WorkingDays: len(days),
		Filled:      filled,
		Rate:        decimal.NewFromInt(int64(filled)).Div(decimal.NewFromInt(int64(len(days)))),
	}, nil
}

// IncompleteEntry is a stored entry that fails validation.
type IncompleteEntry struct {
	Date   generic.TimePoint
	Errors []string
}

// IncompleteEntries validates every non-nil entry, resolves its document
// reference within the month and returns the failing ones ordered by date.
func (v *Validator) IncompleteEntries(entries Month) []IncompleteEntry {
	var out []IncompleteEntry
	for date, e := range entries {
		if e == nil {
			continue
		}
		errs := v.Validate(*e).Errors
		errs = append(errs, ReferenceErrors(entries, *e)...)
		if len(errs) > 0 {
			out = append(out, IncompleteEntry{Date: date, Errors: errs})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
