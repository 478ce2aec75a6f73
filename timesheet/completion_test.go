package timesheet_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestWorkingDays_March2024(t *testing.T) {
	days := timesheet.WorkingDays(2024, time.March)

	require.Len(t, days, 21)
	assert.Equal(t, "2024-03-01", days[0].String())
	assert.Equal(t, "2024-03-04", days[1].String(), "weekend of the 2nd/3rd skipped")
	assert.Equal(t, "2024-03-29", days[len(days)-1].String())
}

func TestCompletionRate(t *testing.T) {
	// GIVEN: June 2024 (20 working days) with 16 filled
	m := fillWorkdays(2024, time.June, 16)

	// AND: Weekend entries, which do not count
	m[date("2024-06-01")] = &timesheet.Entry{Date: date("2024-06-01"), Type: timesheet.TypeDayOff}

	// AND: An explicit nil entry on a working day
	m[date("2024-06-28")] = nil

	// WHEN: Computing completion
	c, err := timesheet.CompletionRate(m, 2024, time.June)

	// THEN: 16/20
	require.NoError(t, err)
	assert.Equal(t, 20, c.WorkingDays)
	assert.Equal(t, 16, c.Filled)
	assert.True(t, decimal.RequireFromString("0.8").Equal(c.Rate), "rate %s", c.Rate)
	assert.Equal(t, int64(80), c.Percent())
}

func TestCompletionRate_CountsInvalidEntriesAsFilled(t *testing.T) {
	// GIVEN: One working day holding an entry that fails validation
	m := monthOf(timesheet.Entry{Date: date("2024-06-03"), Type: timesheet.TypeMedicalLeave})

	c, err := timesheet.CompletionRate(m, 2024, time.June)

	require.NoError(t, err)
	assert.Equal(t, 1, c.Filled)
	assert.Equal(t, int64(5), c.Percent())
}

func TestCompletionRate_EmptyMonth(t *testing.T) {
	c, err := timesheet.CompletionRate(nil, 2024, time.June)

	require.NoError(t, err)
	assert.Equal(t, 0, c.Filled)
	assert.True(t, c.Rate.IsZero())
}

func TestIncompleteEntries_SortedByDate(t *testing.T) {
	m := monthOf(
		working("2024-06-05", "09:00", "18:00"),
		timesheet.Entry{Date: date("2024-06-04"), Type: timesheet.TypeMedicalLeave},
		timesheet.Entry{Date: date("2024-06-03"), Type: timesheet.TypeWorkingHours},
	)
	m[date("2024-06-06")] = nil

	got := newValidator().IncompleteEntries(m)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-03", got[0].Date.String())
	assert.Equal(t, "2024-06-04", got[1].Date.String())
	assert.Contains(t, got[1].Errors, "Supporting documents are required for medical leave")
}

func TestIncompleteEntries_UnresolvedDocumentReference(t *testing.T) {
	// GIVEN: A medical leave day pointing outside the month
	m := monthOf(timesheet.Entry{
		Date:              date("2024-03-04"),
		Type:              timesheet.TypeMedicalLeave,
		DocumentReference: datePtr("2023-01-01"),
	})

	got := newValidator().IncompleteEntries(m)

	// THEN: It is reported even though the entry alone is valid
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Referenced documents (2023-01-01) must be in the same month as the entry"}, got[0].Errors)
}
