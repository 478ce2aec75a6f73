package timesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestEntryTypes_EveryTypeHasRules(t *testing.T) {
	seen := map[timesheet.EntryType]bool{}
	for _, typ := range timesheet.AllEntryTypes() {
		assert.False(t, seen[typ], "duplicate type %s", typ)
		seen[typ] = true

		assert.True(t, typ.Known(), "type %s has no rule", typ)
		assert.NotEqual(t, timesheet.CategoryNone, typ.Category(), "type %s", typ)
	}
	assert.Len(t, seen, 17)
}

func TestEntryTypes_FieldRules(t *testing.T) {
	assert.True(t, timesheet.TypeWorkingHours.RequiresTimes())
	assert.True(t, timesheet.TypeOffInLieu.RequiresDateEarned())
	assert.False(t, timesheet.TypeOffInLieu.RequiresDocuments())
	assert.False(t, timesheet.TypeDayOff.RequiresDocuments())
	assert.False(t, timesheet.TypeOther.RequiresDocuments())

	halfDays := map[timesheet.EntryType]timesheet.EntryType{
		timesheet.TypeAnnualLeaveHalfDay:    timesheet.TypeAnnualLeave,
		timesheet.TypeChildcareLeaveHalfDay: timesheet.TypeChildcareLeave,
		timesheet.TypeNoPayLeaveHalfDay:     timesheet.TypeNoPayLeave,
	}
	for _, typ := range timesheet.AllEntryTypes() {
		base, isHalf := halfDays[typ]
		assert.Equal(t, isHalf, typ.IsHalfDay(), "type %s", typ)
		if isHalf {
			assert.Equal(t, base, typ.BaseType())
			assert.True(t, typ.RequiresDocuments(), "half-day %s needs documents", typ)
		} else {
			assert.Equal(t, typ, typ.BaseType())
		}
	}
}

func TestEntryTypes_UnknownIsInert(t *testing.T) {
	unknown := timesheet.EntryType("sabbatical")

	assert.False(t, unknown.Known())
	assert.Equal(t, timesheet.CategoryNone, unknown.Category())
	assert.False(t, unknown.RequiresTimes())
	assert.False(t, unknown.RequiresDocuments())
}

func TestEntry_CloneIsDeep(t *testing.T) {
	e := timesheet.Entry{
		Date:                date("2024-03-04"),
		Type:                timesheet.TypeMedicalLeave,
		SupportingDocuments: []timesheet.Document{doc("a.pdf")},
		DateEarned:          datePtr("2024-03-01"),
	}

	c := e.Clone()
	c.SupportingDocuments[0].Name = "changed.pdf"
	*c.DateEarned = date("2024-02-01")

	assert.Equal(t, "a.pdf", e.SupportingDocuments[0].Name)
	assert.Equal(t, date("2024-03-01"), *e.DateEarned)
}

func TestStatus_Editable(t *testing.T) {
	assert.True(t, timesheet.StatusDraft.Editable())
	assert.True(t, timesheet.StatusRejected.Editable())
	assert.False(t, timesheet.StatusPending.Editable())
	assert.False(t, timesheet.StatusApproved.Editable())
	assert.False(t, timesheet.Status("archived").Valid())
}
