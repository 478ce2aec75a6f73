package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestParseEntry_WorkingHours(t *testing.T) {
	e, err := factory.ParseEntry([]byte(`{
		"date": "2024-03-04",
		"type": "working_hours",
		"notes": "client visit",
		"startTime": "09:00",
		"endTime": "18:00"
	}`))
	require.NoError(t, err)

	assert.Equal(t, generic.MustParseDate("2024-03-04"), e.Date)
	assert.Equal(t, timesheet.TypeWorkingHours, e.Type)
	assert.Equal(t, "client visit", e.Notes)
	require.NotNil(t, e.StartTime)
	assert.Equal(t, "09:00", e.StartTime.String())
	assert.Equal(t, "18:00", e.EndTime.String())
	assert.Nil(t, e.DateEarned)
}

func TestParseEntry_RequiresDate(t *testing.T) {
	_, err := factory.ParseEntry([]byte(`{"type": "day_off"}`))
	assert.ErrorIs(t, err, generic.ErrInvalidDate)
}

func TestParseEntry_MalformedFields(t *testing.T) {
	tests := map[string]string{
		"bad date":       `{"date": "2024-13-01", "type": "day_off"}`,
		"bad start":      `{"date": "2024-03-04", "type": "working_hours", "startTime": "9am"}`,
		"bad dateEarned": `{"date": "2024-03-04", "type": "off_in_lieu", "dateEarned": "yesterday"}`,
		"not JSON":       `{`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := factory.ParseEntry([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestParseEntry_AdministratorTypeBecomesOther(t *testing.T) {
	// GIVEN: A tag outside the built-in set
	e, err := factory.ParseEntry([]byte(`{"date": "2024-03-04", "type": "study_leave"}`))
	require.NoError(t, err)

	// THEN: It is an "other" entry carrying the tag
	assert.Equal(t, timesheet.TypeOther, e.Type)
	assert.Equal(t, "study_leave", e.CustomType)
	assert.Equal(t, "SL", timesheet.Abbreviation(e))
}

func TestParseEntry_OtherNamingBuiltInTypeIsThatType(t *testing.T) {
	// GIVEN: An "other" entry whose tag is a built-in type
	e, err := factory.ParseEntry([]byte(`{"date": "2024-03-04", "type": "other", "otherType": "medical_leave"}`))
	require.NoError(t, err)

	// THEN: It decodes as the built-in type
	assert.Equal(t, timesheet.TypeMedicalLeave, e.Type)
	assert.Empty(t, e.CustomType)

	// AND: The built-in document rule applies
	res := timesheet.NewValidator(generic.FixedClock(generic.MustParseDate("2024-06-15"))).Validate(e)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Supporting documents are required for medical leave"}, res.Errors)
}

func TestParseEntry_OtherKeepsAdministratorTag(t *testing.T) {
	e, err := factory.ParseEntry([]byte(`{"date": "2024-03-04", "type": "other", "otherType": " study_leave "}`))
	require.NoError(t, err)

	assert.Equal(t, timesheet.TypeOther, e.Type)
	assert.Equal(t, "study_leave", e.CustomType)
}

func TestParseEntry_HalfDayPeriodCaseInsensitive(t *testing.T) {
	e, err := factory.ParseEntry([]byte(`{"date": "2024-03-04", "type": "annual_leave_half_day", "halfDayPeriod": "pm"}`))
	require.NoError(t, err)
	assert.Equal(t, timesheet.HalfDayPM, e.HalfDayPeriod)
}

func TestMonthEncoding_RoundTrip(t *testing.T) {
	// GIVEN: A month with a primary, a referencing and an absent day
	ref := generic.MustParseDate("2024-03-04")
	m := timesheet.Month{
		generic.MustParseDate("2024-03-04"): {
			Date:                generic.MustParseDate("2024-03-04"),
			Type:                timesheet.TypeMedicalLeave,
			SupportingDocuments: []timesheet.Document{{Name: "mc.pdf", MediaType: "application/pdf", Size: 20480, Content: "JVBERi0="}},
			IsPrimaryDocument:   true,
		},
		generic.MustParseDate("2024-03-05"): {
			Date:              generic.MustParseDate("2024-03-05"),
			Type:              timesheet.TypeMedicalLeave,
			Notes:             "(References documents from 2024-03-04)",
			DocumentReference: &ref,
		},
		generic.MustParseDate("2024-03-06"): nil,
	}

	// WHEN: Encoding and decoding
	data, err := factory.EncodeMonth(m)
	require.NoError(t, err)
	got, err := factory.DecodeMonth(data)
	require.NoError(t, err)

	// THEN: The month is unchanged, including the explicit absence
	assert.Equal(t, m, got)
	_, present := got[generic.MustParseDate("2024-03-06")]
	assert.True(t, present)
}

func TestMonthEncoding_KeysAreDates(t *testing.T) {
	m := timesheet.Month{
		generic.MustParseDate("2024-03-04"): {Date: generic.MustParseDate("2024-03-04"), Type: timesheet.TypeDayOff},
	}

	data, err := factory.EncodeMonth(m)
	require.NoError(t, err)

	assert.JSONEq(t, `{"2024-03-04": {"date": "2024-03-04", "type": "day_off"}}`, string(data))
}

func TestBulkFromJSON(t *testing.T) {
	req, err := factory.BulkFromJSON(factory.BulkJSON{
		Template: factory.EntryJSON{Type: "off_in_lieu", Notes: "weekend release"},
		Dates:    []string{"2024-03-04", "2024-03-05"},
		IndividualModifications: map[string]factory.OverrideJSON{
			"2024-03-04": {DateEarned: strPtr("2024-02-24")},
		},
		PrimaryDocumentDay: "2024-03-04",
	})
	require.NoError(t, err)

	assert.Equal(t, timesheet.TypeOffInLieu, req.Template.Type)
	assert.True(t, req.Template.Date.IsZero())
	assert.Len(t, req.Dates, 2)
	override := req.IndividualModifications[generic.MustParseDate("2024-03-04")]
	require.NotNil(t, override.DateEarned)
	assert.Equal(t, "2024-02-24", override.DateEarned.String())
	require.NotNil(t, req.PrimaryDocumentDay)
}

func TestBulkFromJSON_RejectsBadDates(t *testing.T) {
	_, err := factory.BulkFromJSON(factory.BulkJSON{
		Template: factory.EntryJSON{Type: "day_off"},
		Dates:    []string{"2024-03-04", "March 5"},
	})
	assert.ErrorIs(t, err, generic.ErrInvalidDate)
}

func TestStatusEncoding(t *testing.T) {
	rec := timesheet.StatusRecord{
		Status:    timesheet.StatusRejected,
		UpdatedBy: "manager-1",
		UpdatedAt: time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC),
		Comment:   "Missing MC for 5 March",
	}

	data, err := factory.EncodeStatus(rec)
	require.NoError(t, err)
	got, err := factory.DecodeStatus(data)
	require.NoError(t, err)

	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.UpdatedBy, got.UpdatedBy)
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, rec.Comment, got.Comment)

	_, err = factory.DecodeStatus([]byte(`{"status": "archived"}`))
	assert.Error(t, err)
}

func TestPresetEncoding(t *testing.T) {
	presets := []timesheet.Preset{{
		ID:        "p-1",
		StartTime: generic.MustParseClockTime("07:30"),
		EndTime:   generic.MustParseClockTime("16:30"),
		Custom:    true,
	}}

	data, err := factory.EncodePresets(presets)
	require.NoError(t, err)
	got, err := factory.DecodePresets(data)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "p-1", got[0].ID)
	assert.Equal(t, "7:30 AM - 4:30 PM", got[0].Label, "missing label is derived")
	assert.True(t, got[0].Custom)
}

func strPtr(s string) *string { return &s }
