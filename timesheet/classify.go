package timesheet

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Abbreviation returns the short code shown in calendar cells:
//
//	working_hours          -> "09:00-18:00"
//	annual_leave           -> "AL"
//	annual_leave_half_day  -> "AL-AM" / "AL-PM"
//	other ("study_leave")  -> "SL"
//
// Types without a dedicated code fall back to Initials of their tag.
func Abbreviation(e Entry) string {
	switch {
	case e.Type == TypeWorkingHours:
		if e.StartTime == nil || e.EndTime == nil {
			return ""
		}
		return e.StartTime.String() + "-" + e.EndTime.String()
	case e.Type.IsHalfDay():
		code := Initials(string(e.Type.BaseType()))
		if e.HalfDayPeriod.Valid() {
			return code + "-" + string(e.HalfDayPeriod)
		}
		return code
	default:
		return Initials(e.TypeTag())
	}
}

// Initials splits tag on underscores and upper-cases the first letter of
// each part: "shared_parental_leave" -> "SPL".
func Initials(tag string) string {
	var b strings.Builder
	for _, part := range strings.Split(tag, "_") {
		r, _ := utf8.DecodeRuneInString(part)
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

var titleCaser = cases.Title(language.English)

// Label renders a type tag for selectors: "off_in_lieu" -> "Off In Lieu".
func Label(tag string) string {
	return titleCaser.String(humanize(tag))
}

// IsWorkingDay reports whether the entry records worked hours.
func IsWorkingDay(e Entry) bool {
	return e.Type == TypeWorkingHours
}

// IsLeaveDay reports whether the entry is any kind of leave. Day-off
// (holiday) entries are neither working nor leave days.
func IsLeaveDay(e Entry) bool {
	return e.Type != "" && e.Type != TypeWorkingHours && e.Type != TypeDayOff
}

// Classify returns the entry's category, resolving nil to CategoryNone.
func Classify(e *Entry) Category {
	if e == nil {
		return CategoryNone
	}
	return e.Type.Category()
}
