package timesheet

import (
	"fmt"
	"strings"

	"github.com/warp/timesheet-engine/generic"
)

// MaxWorkingMinutes caps a single working-hours entry at 16 hours.
const MaxWorkingMinutes = 16 * 60

// =============================================================================
// VALIDATOR - Per-entry field rules shared by single and bulk paths
// =============================================================================

// Validator applies the entry rules. The zero value uses the system date for
// "today"; tests inject a fixed Clock.
type Validator struct {
	Now generic.Clock
}

// NewValidator returns a validator reading today's date from clock.
// A nil clock means generic.Today.
func NewValidator(clock generic.Clock) *Validator {
	return &Validator{Now: clock}
}

func (v *Validator) today() generic.TimePoint {
	if v == nil || v.Now == nil {
		return generic.Today()
	}
	return v.Now()
}

// Result is the outcome of validating one entry. Errors is never nil.
type Result struct {
	Valid  bool
	Errors []string
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Validate checks every rule independently and reports all violations.
// It never mutates e and has no side effects.
func (v *Validator) Validate(e Entry) Result {
	errs := checkType(e)
	if !e.Type.Known() {
		return newResult(errs)
	}
	errs = append(errs, checkTimes(e)...)
	errs = append(errs, checkHalfDay(e)...)
	errs = append(errs, checkDocuments(e)...)
	if e.Type.RequiresDateEarned() {
		errs = append(errs, checkDateEarned(e.Date, e.DateEarned, v.today())...)
	}
	errs = append(errs, checkFieldConsistency(e)...)
	return newResult(errs)
}

// checkType: a type must be chosen; "other" needs its free-text tag.
func checkType(e Entry) []string {
	switch {
	case e.Type == "":
		return []string{"Entry type is required"}
	case !e.Type.Known():
		return []string{fmt.Sprintf("Unknown entry type %q", e.Type)}
	case e.Type == TypeOther && strings.TrimSpace(e.CustomType) == "":
		return []string{"Please specify the entry type for \"other\""}
	case e.Type == TypeOther && builtInTag(e.CustomType):
		return []string{fmt.Sprintf("Use the %s entry type instead of \"other\"", humanize(strings.TrimSpace(e.CustomType)))}
	}
	return nil
}

func builtInTag(tag string) bool {
	t := EntryType(strings.TrimSpace(tag))
	return t != TypeOther && t.Known()
}

func checkTimes(e Entry) []string {
	if !e.Type.RequiresTimes() {
		return nil
	}
	var errs []string
	if e.StartTime == nil {
		errs = append(errs, "Start time is required for working hours")
	}
	if e.EndTime == nil {
		errs = append(errs, "End time is required for working hours")
	}
	if e.StartTime == nil || e.EndTime == nil {
		return errs
	}
	span := generic.Duration(*e.StartTime, *e.EndTime)
	if span.TotalMinutes <= 0 {
		errs = append(errs, "End time must be after start time")
	} else if span.TotalMinutes > MaxWorkingMinutes {
		errs = append(errs, fmt.Sprintf("Working hours cannot exceed 16 hours (got %s)", span))
	}
	return errs
}

func checkHalfDay(e Entry) []string {
	if !e.Type.IsHalfDay() {
		return nil
	}
	switch {
	case e.HalfDayPeriod == "":
		return []string{"Half-day period (AM or PM) is required"}
	case !e.HalfDayPeriod.Valid():
		return []string{fmt.Sprintf("Half-day period must be AM or PM, got %q", e.HalfDayPeriod)}
	}
	return nil
}

func checkDocuments(e Entry) []string {
	if !e.Type.RequiresDocuments() {
		return nil
	}
	if len(e.SupportingDocuments) == 0 && e.DocumentReference == nil {
		return []string{fmt.Sprintf("Supporting documents are required for %s", humanize(e.TypeTag()))}
	}
	return nil
}

// checkDateEarned applies the off-in-lieu rules for one day. The earned
// date may equal the entry date; only later dates and future dates fail.
func checkDateEarned(date generic.TimePoint, earned *generic.TimePoint, today generic.TimePoint) []string {
	if earned == nil {
		return []string{"Date earned is required for off in lieu"}
	}
	var errs []string
	if earned.After(date) {
		errs = append(errs, fmt.Sprintf("Date earned (%s) cannot be after the entry date (%s)", earned, date))
	}
	if earned.After(today) {
		errs = append(errs, fmt.Sprintf("Date earned (%s) cannot be in the future", earned))
	}
	return errs
}

// checkFieldConsistency rejects optional fields the type does not use.
func checkFieldConsistency(e Entry) []string {
	var errs []string
	if !e.Type.RequiresTimes() && (e.StartTime != nil || e.EndTime != nil) {
		errs = append(errs, "Start and end times are only allowed for working hours")
	}
	if !e.Type.IsHalfDay() && e.HalfDayPeriod != "" {
		errs = append(errs, "Half-day period is only allowed for half-day leave")
	}
	if !e.Type.RequiresDateEarned() && e.DateEarned != nil {
		errs = append(errs, "Date earned is only allowed for off in lieu")
	}
	if e.Type != TypeOther && e.CustomType != "" {
		errs = append(errs, "A custom type is only allowed for \"other\" entries")
	}
	allowsDocuments := e.Type.RequiresDocuments() || e.Type == TypeOther
	if !allowsDocuments && (len(e.SupportingDocuments) > 0 || e.DocumentReference != nil || e.IsPrimaryDocument) {
		errs = append(errs, fmt.Sprintf("Supporting documents are not allowed for %s", humanize(e.TypeTag())))
	}
	if len(e.SupportingDocuments) > 0 && e.DocumentReference != nil {
		errs = append(errs, "An entry cannot hold supporting documents and a document reference at the same time")
	}
	if e.IsPrimaryDocument && len(e.SupportingDocuments) == 0 {
		errs = append(errs, "A primary document entry must hold its supporting documents")
	}
	if e.DocumentReference != nil && e.DocumentReference.Equal(e.Date) {
		errs = append(errs, "An entry cannot reference its own documents")
	}
	return errs
}

// ReferenceErrors checks e's document reference against the month it is
// stored in: the referenced day must be in the same month and hold the
// primary documents. Self-references are reported by Validate.
func ReferenceErrors(m Month, e Entry) []string {
	ref := e.DocumentReference
	if ref == nil || ref.Equal(e.Date) {
		return nil
	}
	if ref.Year() != e.Date.Year() || ref.Month() != e.Date.Month() {
		return []string{fmt.Sprintf("Referenced documents (%s) must be in the same month as the entry", ref)}
	}
	target := m[*ref]
	if target == nil || !target.IsPrimaryDocument || len(target.SupportingDocuments) == 0 {
		return []string{fmt.Sprintf("No supporting documents are stored on %s", ref)}
	}
	return nil
}

// humanize turns "medical_leave" into "medical leave".
func humanize(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}
