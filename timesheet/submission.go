package timesheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
)

// MinCompletionRate is the share of working days that must carry an entry
// before a month can be submitted.
var MinCompletionRate = decimal.RequireFromString("0.80")

// =============================================================================
// SUBMISSION GATE
// =============================================================================

// SubmissionReport holds the result of both gate checks. Both are always
// computed, so one failure never hides the other.
type SubmissionReport struct {
	Year       int
	Month      time.Month
	Completion Completion
	Incomplete []IncompleteEntry
	Problems   []string
}

// OK reports whether the month may move from draft to submitted.
func (r SubmissionReport) OK() bool { return len(r.Problems) == 0 }

// SubmissionError is returned by CanSubmit when any check fails.
type SubmissionError struct {
	Report SubmissionReport
}

func (e *SubmissionError) Error() string {
	return "cannot submit timesheet: " + strings.Join(e.Report.Problems, "; ")
}

func (e *SubmissionError) Unwrap() error {
	return generic.ErrSubmissionRejected
}

// EvaluateSubmission runs the completion-rate and incomplete-entry checks
// independently and collects every problem found.
func (v *Validator) EvaluateSubmission(entries Month, year int, month time.Month) SubmissionReport {
	report := SubmissionReport{Year: year, Month: month}

	completion, err := CompletionRate(entries, year, month)
	switch {
	case err != nil:
		report.Problems = append(report.Problems, fmt.Sprintf("Completion rate cannot be computed: %v", err))
	case completion.Rate.LessThan(MinCompletionRate):
		report.Problems = append(report.Problems, fmt.Sprintf(
			"Completion rate is %d%% (%d out of %d working days filled); at least %s%% is required",
			completion.Percent(), completion.Filled, completion.WorkingDays,
			MinCompletionRate.Mul(decimal.NewFromInt(100)).String()))
	}
	report.Completion = completion

	report.Incomplete = v.IncompleteEntries(entries)
	if len(report.Incomplete) > 0 {
		dates := make([]string, len(report.Incomplete))
		for i, ie := range report.Incomplete {
			dates[i] = ie.Date.String()
		}
		report.Problems = append(report.Problems, fmt.Sprintf(
			"%d incomplete entries need attention: %s", len(dates), strings.Join(dates, ", ")))
	}

	return report
}

// CanSubmit returns nil when the month passes the gate, otherwise a
// *SubmissionError carrying the full report.
func (v *Validator) CanSubmit(entries Month, year int, month time.Month) error {
	report := v.EvaluateSubmission(entries, year, month)
	if !report.OK() {
		return &SubmissionError{Report: report}
	}
	return nil
}
