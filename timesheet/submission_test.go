package timesheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestSubmission_ThresholdIsInclusive(t *testing.T) {
	// GIVEN: 16 of 20 working days filled with valid entries
	m := fillWorkdays(2024, time.June, 16)

	// WHEN: Checking the gate
	err := newValidator().CanSubmit(m, 2024, time.June)

	// THEN: Exactly 80% passes
	assert.NoError(t, err)
}

func TestSubmission_BelowThreshold(t *testing.T) {
	// GIVEN: 15 of 20 working days filled
	m := fillWorkdays(2024, time.June, 15)

	// WHEN: Checking the gate
	err := newValidator().CanSubmit(m, 2024, time.June)

	// THEN: Rejected with the counts in the message
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrSubmissionRejected)

	var subErr *timesheet.SubmissionError
	require.ErrorAs(t, err, &subErr)
	require.Len(t, subErr.Report.Problems, 1)
	assert.Contains(t, subErr.Report.Problems[0], "15 out of 20")
	assert.Contains(t, subErr.Report.Problems[0], "75%")
	assert.Empty(t, subErr.Report.Incomplete)
}

func TestSubmission_ReportsBothChecks(t *testing.T) {
	// GIVEN: A sparse month that also holds one invalid entry
	m := fillWorkdays(2024, time.June, 5)
	bad := timesheet.Entry{Date: date("2024-06-20"), Type: timesheet.TypeAnnualLeave}
	m[bad.Date] = &bad

	// WHEN: Evaluating
	report := newValidator().EvaluateSubmission(m, 2024, time.June)

	// THEN: Both the rate problem and the incomplete entry are reported
	assert.False(t, report.OK())
	require.Len(t, report.Problems, 2)
	assert.Contains(t, report.Problems[0], "6 out of 20")
	assert.Equal(t, "1 incomplete entries need attention: 2024-06-20", report.Problems[1])
	require.Len(t, report.Incomplete, 1)
	assert.Equal(t, bad.Date, report.Incomplete[0].Date)
}

func TestSubmission_InvalidEntryBlocksFullMonth(t *testing.T) {
	// GIVEN: Every working day filled but one OIL earned in the future
	m := fillWorkdays(2024, time.June, 20)
	oil := timesheet.Entry{Date: date("2024-06-28"), Type: timesheet.TypeOffInLieu, DateEarned: datePtr("2024-06-27")}
	m[oil.Date] = &oil

	// WHEN: Evaluating with today = 2024-06-15
	report := newValidator().EvaluateSubmission(m, 2024, time.June)

	// THEN: Completion is fine but the entry blocks submission
	assert.Equal(t, int64(100), report.Completion.Percent())
	assert.False(t, report.OK())
	assert.Len(t, report.Problems, 1)
}
