package timesheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// BULK ENTRY EXPANSION - One template, many days
// =============================================================================

// EntryOverride holds per-date values that win over the template.
// Nil fields leave the template value in place.
type EntryOverride struct {
	Notes         *string
	CustomType    *string
	StartTime     *generic.ClockTime
	EndTime       *generic.ClockTime
	HalfDayPeriod *HalfDayPeriod
	DateEarned    *generic.TimePoint // only read for off-in-lieu
}

// BulkRequest is a multi-day edit. Template.Date, Template.DateEarned and
// the template's document fields are ignored: earned dates come per day
// from IndividualModifications and files from Documents.
type BulkRequest struct {
	Template                Entry
	Dates                   []generic.TimePoint
	IndividualModifications map[generic.TimePoint]EntryOverride
	Documents               []Document

	// PrimaryDocumentDay stores the files when the type needs documents
	// or an "other" request carries them. Nil selects the earliest date.
	PrimaryDocumentDay *generic.TimePoint
}

// BulkValidation is the pre-expansion check result. Errors is never nil.
type BulkValidation struct {
	IsValid bool
	Errors  []string
}

// BulkError is returned by Expand; no entry is produced for any date.
type BulkError struct {
	Errors []string
}

func (e *BulkError) Error() string {
	return "bulk edit rejected: " + strings.Join(e.Errors, "; ")
}

func (e *BulkError) Unwrap() error {
	return generic.ErrExpansionRejected
}

// selectedDates returns the request dates sorted and de-duplicated.
func (r BulkRequest) selectedDates() []generic.TimePoint {
	seen := make(map[generic.TimePoint]bool, len(r.Dates))
	out := make([]generic.TimePoint, 0, len(r.Dates))
	for _, d := range r.Dates {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// primaryDay picks the date that stores the documents.
func (r BulkRequest) primaryDay(dates []generic.TimePoint) generic.TimePoint {
	if r.PrimaryDocumentDay != nil {
		return *r.PrimaryDocumentDay
	}
	return dates[0]
}

// ValidateBulk applies the shared type, time and half-day rules to the
// template once, checks documents once for the whole selection, and checks
// off-in-lieu earned dates for every selected day.
func (v *Validator) ValidateBulk(r BulkRequest) BulkValidation {
	dates := r.selectedDates()
	if len(dates) == 0 {
		return BulkValidation{IsValid: false, Errors: []string{"At least one date must be selected"}}
	}

	t := r.Template
	errs := checkType(t)
	if t.Type.Known() {
		errs = append(errs, checkTimes(t)...)
		errs = append(errs, checkHalfDay(t)...)

		shared := t.Clone()
		shared.DateEarned = nil
		shared.SupportingDocuments = nil
		shared.DocumentReference = nil
		shared.IsPrimaryDocument = false
		errs = append(errs, checkFieldConsistency(shared)...)
	}

	if t.Type.RequiresDocuments() && len(r.Documents) == 0 {
		errs = append(errs, fmt.Sprintf("Supporting documents are required for %s", humanize(t.TypeTag())))
	}
	if t.Type.Known() && len(r.Documents) > 0 && !t.Type.RequiresDocuments() && t.Type != TypeOther {
		errs = append(errs, fmt.Sprintf("Supporting documents are not allowed for %s", humanize(t.TypeTag())))
	}
	if (t.Type.RequiresDocuments() || len(r.Documents) > 0) && r.PrimaryDocumentDay != nil && !containsDate(dates, *r.PrimaryDocumentDay) {
		errs = append(errs, fmt.Sprintf("Primary document day %s is not one of the selected dates", r.PrimaryDocumentDay))
	}

	if t.Type.RequiresDateEarned() {
		errs = append(errs, v.checkBulkDateEarned(r, dates)...)
	}

	if errs == nil {
		errs = []string{}
	}
	return BulkValidation{IsValid: len(errs) == 0, Errors: errs}
}

// checkBulkDateEarned requires a distinct earned date for every selected day.
func (v *Validator) checkBulkDateEarned(r BulkRequest, dates []generic.TimePoint) []string {
	var errs []string
	missing := 0
	today := v.today()
	for _, d := range dates {
		earned := r.IndividualModifications[d].DateEarned
		if earned == nil {
			missing++
			continue
		}
		for _, msg := range checkDateEarned(d, earned, today) {
			errs = append(errs, d.String()+": "+msg)
		}
	}
	if missing > 0 {
		errs = append([]string{fmt.Sprintf(
			"Date earned is required for every selected date (%d of %d dates missing)", missing, len(dates))}, errs...)
	}
	return errs
}

// Expand produces one finished entry per selected date, ordered by date.
// It is all-or-nothing: on any error it returns a *BulkError and no entries.
func (v *Validator) Expand(r BulkRequest) ([]Entry, error) {
	if res := v.ValidateBulk(r); !res.IsValid {
		return nil, &BulkError{Errors: res.Errors}
	}

	dates := r.selectedDates()
	primary := r.primaryDay(dates)

	entries := make([]Entry, 0, len(dates))
	var errs []string
	for _, d := range dates {
		e := expandOne(r, d, primary)
		if res := v.Validate(e); !res.Valid {
			for _, msg := range res.Errors {
				errs = append(errs, d.String()+": "+msg)
			}
			continue
		}
		entries = append(entries, e)
	}
	if len(errs) > 0 {
		return nil, &BulkError{Errors: errs}
	}
	return entries, nil
}

// expandOne builds a fresh entry for date from the template, the type's
// field rules, the date's override and its document role.
func expandOne(r BulkRequest, date, primary generic.TimePoint) Entry {
	t := r.Template
	e := Entry{
		Date:       date,
		Type:       t.Type,
		CustomType: t.CustomType,
		Notes:      t.Notes,
	}

	if t.Type.RequiresTimes() {
		e.StartTime = copyClock(t.StartTime)
		e.EndTime = copyClock(t.EndTime)
	}

	override := r.IndividualModifications[date]
	if t.Type.RequiresDateEarned() && override.DateEarned != nil {
		earned := *override.DateEarned
		e.DateEarned = &earned
	}
	if t.Type.IsHalfDay() {
		e.HalfDayPeriod = t.HalfDayPeriod
	}

	// Remaining per-date values win; DateEarned was applied above.
	if override.Notes != nil {
		e.Notes = *override.Notes
	}
	if override.CustomType != nil {
		e.CustomType = *override.CustomType
	}
	if override.StartTime != nil {
		e.StartTime = copyClock(override.StartTime)
	}
	if override.EndTime != nil {
		e.EndTime = copyClock(override.EndTime)
	}
	if override.HalfDayPeriod != nil {
		e.HalfDayPeriod = *override.HalfDayPeriod
	}

	if t.Type.RequiresDocuments() || (t.Type == TypeOther && len(r.Documents) > 0) {
		if date.Equal(primary) {
			e.SupportingDocuments = append([]Document(nil), r.Documents...)
			e.IsPrimaryDocument = true
		} else {
			ref := primary
			e.DocumentReference = &ref
			e.Notes = appendNote(e.Notes, fmt.Sprintf("(References documents from %s)", primary))
		}
	}
	return e
}

func appendNote(notes, fragment string) string {
	if strings.TrimSpace(notes) == "" {
		return fragment
	}
	return notes + " " + fragment
}

func copyClock(c *generic.ClockTime) *generic.ClockTime {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func containsDate(dates []generic.TimePoint, d generic.TimePoint) bool {
	for _, x := range dates {
		if x.Equal(d) {
			return true
		}
	}
	return false
}

// Apply returns a copy of m with entries written over their dates.
func (m Month) Apply(entries []Entry) Month {
	out := make(Month, len(m)+len(entries))
	for d, e := range m {
		if e != nil {
			c := e.Clone()
			out[d] = &c
		}
	}
	for _, e := range entries {
		c := e.Clone()
		out[e.Date] = &c
	}
	return out
}
