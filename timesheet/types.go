// Package timesheet implements the entry and submission rules for monthly timesheets.
// It uses the generic package for dates, clock arithmetic and errors, and is
// free of I/O: every operation is a pure function of its inputs.
package timesheet

import (
	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// ENTRY TYPE - Closed set of day record kinds
// =============================================================================

type EntryType string

const (
	TypeWorkingHours          EntryType = "working_hours"
	TypeAnnualLeave           EntryType = "annual_leave"
	TypeAnnualLeaveHalfDay    EntryType = "annual_leave_half_day"
	TypeMedicalLeave          EntryType = "medical_leave"
	TypeChildcareLeave        EntryType = "childcare_leave"
	TypeChildcareLeaveHalfDay EntryType = "childcare_leave_half_day"
	TypeOffInLieu             EntryType = "off_in_lieu"
	TypeDayOff                EntryType = "day_off"
	TypeHospitalizationLeave  EntryType = "hospitalization_leave"
	TypeMaternityLeave        EntryType = "maternity_leave"
	TypePaternityLeave        EntryType = "paternity_leave"
	TypeCompassionateLeave    EntryType = "compassionate_leave"
	TypeSharedParentalLeave   EntryType = "shared_parental_leave"
	TypeNoPayLeave            EntryType = "nopay_leave"
	TypeNoPayLeaveHalfDay     EntryType = "nopay_leave_half_day"
	TypeReservist             EntryType = "reservist"
	TypeOther                 EntryType = "other" // administrator-defined, see Entry.CustomType
)

// Category groups entry types for display and completion purposes.
type Category string

const (
	CategoryNone    Category = "none"
	CategoryWorking Category = "working"
	CategoryLeave   Category = "leave"
	CategoryHoliday Category = "holiday"
)

// typeRule lists which optional fields an entry type carries.
type typeRule struct {
	category          Category
	times             bool      // StartTime/EndTime required
	halfDay           bool      // HalfDayPeriod required
	dateEarned        bool      // DateEarned required
	documentsRequired bool      // at least one document or a reference
	base              EntryType // full-day variant of a half-day type
}

// typeRules is the single source of truth for per-type field rules.
// Every EntryType constant must have a row and appear in AllEntryTypes.
var typeRules = map[EntryType]typeRule{
	TypeWorkingHours:          {category: CategoryWorking, times: true},
	TypeAnnualLeave:           {category: CategoryLeave, documentsRequired: true},
	TypeAnnualLeaveHalfDay:    {category: CategoryLeave, halfDay: true, documentsRequired: true, base: TypeAnnualLeave},
	TypeMedicalLeave:          {category: CategoryLeave, documentsRequired: true},
	TypeChildcareLeave:        {category: CategoryLeave, documentsRequired: true},
	TypeChildcareLeaveHalfDay: {category: CategoryLeave, halfDay: true, documentsRequired: true, base: TypeChildcareLeave},
	TypeOffInLieu:             {category: CategoryLeave, dateEarned: true},
	TypeDayOff:                {category: CategoryHoliday},
	TypeHospitalizationLeave:  {category: CategoryLeave, documentsRequired: true},
	TypeMaternityLeave:        {category: CategoryLeave, documentsRequired: true},
	TypePaternityLeave:        {category: CategoryLeave, documentsRequired: true},
	TypeCompassionateLeave:    {category: CategoryLeave, documentsRequired: true},
	TypeSharedParentalLeave:   {category: CategoryLeave, documentsRequired: true},
	TypeNoPayLeave:            {category: CategoryLeave, documentsRequired: true},
	TypeNoPayLeaveHalfDay:     {category: CategoryLeave, halfDay: true, documentsRequired: true, base: TypeNoPayLeave},
	TypeReservist:             {category: CategoryLeave, documentsRequired: true},
	TypeOther:                 {category: CategoryLeave},
}

func (t EntryType) rule() (typeRule, bool) {
	r, ok := typeRules[t]
	return r, ok
}

// Known reports whether t is one of the enumerated entry types.
func (t EntryType) Known() bool {
	_, ok := typeRules[t]
	return ok
}

// Category returns the display category; unknown and empty types are CategoryNone.
func (t EntryType) Category() Category {
	r, ok := t.rule()
	if !ok {
		return CategoryNone
	}
	return r.category
}

func (t EntryType) IsHalfDay() bool          { return typeRules[t].halfDay }
func (t EntryType) RequiresTimes() bool      { return typeRules[t].times }
func (t EntryType) RequiresDateEarned() bool { return typeRules[t].dateEarned }
func (t EntryType) RequiresDocuments() bool  { return typeRules[t].documentsRequired }

// BaseType returns the full-day variant of a half-day type, or t itself.
func (t EntryType) BaseType() EntryType {
	if r, ok := t.rule(); ok && r.base != "" {
		return r.base
	}
	return t
}

// AllEntryTypes returns every known type in a stable order.
func AllEntryTypes() []EntryType {
	return []EntryType{
		TypeWorkingHours, TypeAnnualLeave, TypeAnnualLeaveHalfDay, TypeMedicalLeave,
		TypeChildcareLeave, TypeChildcareLeaveHalfDay, TypeOffInLieu, TypeDayOff,
		TypeHospitalizationLeave, TypeMaternityLeave, TypePaternityLeave,
		TypeCompassionateLeave, TypeSharedParentalLeave, TypeNoPayLeave,
		TypeNoPayLeaveHalfDay, TypeReservist, TypeOther,
	}
}

// =============================================================================
// HALF-DAY PERIOD
// =============================================================================

type HalfDayPeriod string

const (
	HalfDayAM HalfDayPeriod = "AM"
	HalfDayPM HalfDayPeriod = "PM"
)

func (p HalfDayPeriod) Valid() bool { return p == HalfDayAM || p == HalfDayPM }

// =============================================================================
// ENTRY - One calendar day's record
// =============================================================================

// Document is an uploaded attachment. Content is already encoded by the
// upload side and never inspected here.
type Document struct {
	Name      string
	MediaType string
	Size      int64
	Content   string
}

// Entry is a single day of a timesheet. Optional fields are legal only for
// the types that use them; see typeRules.
type Entry struct {
	Date       generic.TimePoint
	Type       EntryType
	CustomType string // free-text tag when Type == TypeOther
	Notes      string

	StartTime *generic.ClockTime
	EndTime   *generic.ClockTime

	DateEarned    *generic.TimePoint
	HalfDayPeriod HalfDayPeriod

	// At most one of SupportingDocuments and DocumentReference is set.
	SupportingDocuments []Document
	DocumentReference   *generic.TimePoint
	IsPrimaryDocument   bool
}

// Clone returns a deep copy so callers never share slices or pointers.
func (e Entry) Clone() Entry {
	out := e
	if e.StartTime != nil {
		st := *e.StartTime
		out.StartTime = &st
	}
	if e.EndTime != nil {
		et := *e.EndTime
		out.EndTime = &et
	}
	if e.DateEarned != nil {
		de := *e.DateEarned
		out.DateEarned = &de
	}
	if e.DocumentReference != nil {
		ref := *e.DocumentReference
		out.DocumentReference = &ref
	}
	if e.SupportingDocuments != nil {
		out.SupportingDocuments = append([]Document(nil), e.SupportingDocuments...)
	}
	return out
}

// TypeTag returns the tag shown to users: CustomType for "other" entries.
func (e Entry) TypeTag() string {
	if e.Type == TypeOther && e.CustomType != "" {
		return e.CustomType
	}
	return string(e.Type)
}

// =============================================================================
// MONTH
// =============================================================================

// Month maps each date of a period to its entry; a nil entry means absent.
type Month map[generic.TimePoint]*Entry

// Filled returns the number of non-nil entries.
func (m Month) Filled() int {
	n := 0
	for _, e := range m {
		if e != nil {
			n++
		}
	}
	return n
}

// =============================================================================
// STATUS - Owned by the approval workflow; read here for editability
// =============================================================================

type Status string

const (
	StatusNA       Status = "na"
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Editable reports whether entries may still change. A period with no
// status yet (StatusNA) becomes a draft on its first write.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusRejected
}

func (s Status) Valid() bool {
	switch s {
	case StatusNA, StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
