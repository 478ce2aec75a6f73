/*
Package factory converts between the JSON form of timesheet data and Go values.

PURPOSE:
  The same JSON shapes are used on the HTTP API and as the values kept in
  the key-value repository, so a month written by the API reads back
  byte-for-byte through the store.

JSON SCHEMA (entry):
  {
    "date": "2024-03-04",
    "type": "working_hours",
    "notes": "client visit",
    "startTime": "09:00",
    "endTime": "18:00",
    "dateEarned": "2024-02-24",
    "halfDayPeriod": "AM",
    "supportingDocuments": [
      {"name": "mc.pdf", "type": "application/pdf", "size": 20480, "content": "JVBERi0..."}
    ],
    "documentReference": "2024-03-04",
    "isPrimaryDocument": true
  }

  A type tag that is not one of the built-in types is an administrator
  defined type: it decodes to "other" with the tag kept in otherType.

KEY FUNCTIONS:
  - ParseEntry / EntryFromJSON / EntryToJSON
  - EncodeMonth / DecodeMonth: storage form of a month
  - BulkFromJSON: bulk edit payloads
  - EncodeStatus / DecodeStatus, EncodePresets / DecodePresets

SEE ALSO:
  - timesheet/types.go: the Go types
  - workflow/service.go: stores these encodings
  - api/dto.go: embeds EntryJSON in responses
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EntryJSON is the JSON representation of an entry.
type EntryJSON struct {
	Date                string         `json:"date,omitempty"`
	Type                string         `json:"type"`
	OtherType           string         `json:"otherType,omitempty"`
	Notes               string         `json:"notes,omitempty"`
	StartTime           string         `json:"startTime,omitempty"`
	EndTime             string         `json:"endTime,omitempty"`
	DateEarned          string         `json:"dateEarned,omitempty"`
	HalfDayPeriod       string         `json:"halfDayPeriod,omitempty"`
	SupportingDocuments []DocumentJSON `json:"supportingDocuments,omitempty"`
	DocumentReference   string         `json:"documentReference,omitempty"`
	IsPrimaryDocument   bool           `json:"isPrimaryDocument,omitempty"`
}

// DocumentJSON mirrors the browser File fields plus the encoded payload.
type DocumentJSON struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Content string `json:"content"`
}

// OverrideJSON is one date's entry in individualModifications.
type OverrideJSON struct {
	Notes         *string `json:"notes,omitempty"`
	OtherType     *string `json:"otherType,omitempty"`
	StartTime     *string `json:"startTime,omitempty"`
	EndTime       *string `json:"endTime,omitempty"`
	HalfDayPeriod *string `json:"halfDayPeriod,omitempty"`
	DateEarned    *string `json:"dateEarned,omitempty"`
}

// BulkJSON is a bulk edit request.
type BulkJSON struct {
	Template                EntryJSON               `json:"template"`
	Dates                   []string                `json:"dates"`
	IndividualModifications map[string]OverrideJSON `json:"individualModifications,omitempty"`
	Files                   []DocumentJSON          `json:"files,omitempty"`
	PrimaryDocumentDay      string                  `json:"primaryDocumentDay,omitempty"`
}

// StatusJSON is the stored status metadata of a month.
type StatusJSON struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// PresetJSON is a custom hours preset.
type PresetJSON struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Custom    bool   `json:"custom,omitempty"`
}

// =============================================================================
// ENTRIES
// =============================================================================

// ParseEntry decodes a single entry; the date is mandatory.
func ParseEntry(data []byte) (timesheet.Entry, error) {
	var j EntryJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return timesheet.Entry{}, fmt.Errorf("invalid entry JSON: %w", err)
	}
	if j.Date == "" {
		return timesheet.Entry{}, fmt.Errorf("%w: entry date is required", generic.ErrInvalidDate)
	}
	return EntryFromJSON(j)
}

// EntryFromJSON converts the wire form. An empty date yields a zero Date,
// which is what bulk templates carry.
func EntryFromJSON(j EntryJSON) (timesheet.Entry, error) {
	var e timesheet.Entry
	var err error

	if j.Date != "" {
		if e.Date, err = generic.ParseDate(j.Date); err != nil {
			return timesheet.Entry{}, fmt.Errorf("date: %w", err)
		}
	}

	e.Type, e.CustomType = parseType(j.Type, j.OtherType)
	e.Notes = j.Notes
	e.HalfDayPeriod = timesheet.HalfDayPeriod(strings.ToUpper(j.HalfDayPeriod))
	e.IsPrimaryDocument = j.IsPrimaryDocument

	if e.StartTime, err = optionalClock(j.StartTime); err != nil {
		return timesheet.Entry{}, fmt.Errorf("startTime: %w", err)
	}
	if e.EndTime, err = optionalClock(j.EndTime); err != nil {
		return timesheet.Entry{}, fmt.Errorf("endTime: %w", err)
	}
	if e.DateEarned, err = optionalDate(j.DateEarned); err != nil {
		return timesheet.Entry{}, fmt.Errorf("dateEarned: %w", err)
	}
	if e.DocumentReference, err = optionalDate(j.DocumentReference); err != nil {
		return timesheet.Entry{}, fmt.Errorf("documentReference: %w", err)
	}
	e.SupportingDocuments = DocumentsFromJSON(j.SupportingDocuments)

	return e, nil
}

// parseType maps a wire tag to the closed type set. Tags outside the set
// are administrator-defined and become "other". An "other" entry naming a
// built-in tag is that built-in type, so it keeps the type's rules.
func parseType(tag, other string) (timesheet.EntryType, string) {
	t := timesheet.EntryType(strings.TrimSpace(tag))
	switch {
	case t == "":
		return "", ""
	case t == timesheet.TypeOther:
		custom := timesheet.EntryType(strings.TrimSpace(other))
		if custom.Known() {
			return custom, ""
		}
		return timesheet.TypeOther, string(custom)
	case t.Known():
		return t, ""
	default:
		return timesheet.TypeOther, string(t)
	}
}

// EntryToJSON converts an entry to its wire form.
func EntryToJSON(e timesheet.Entry) EntryJSON {
	j := EntryJSON{
		Type:              string(e.Type),
		OtherType:         e.CustomType,
		Notes:             e.Notes,
		HalfDayPeriod:     string(e.HalfDayPeriod),
		IsPrimaryDocument: e.IsPrimaryDocument,
	}
	if !e.Date.IsZero() {
		j.Date = e.Date.String()
	}
	if e.StartTime != nil {
		j.StartTime = e.StartTime.String()
	}
	if e.EndTime != nil {
		j.EndTime = e.EndTime.String()
	}
	if e.DateEarned != nil {
		j.DateEarned = e.DateEarned.String()
	}
	if e.DocumentReference != nil {
		j.DocumentReference = e.DocumentReference.String()
	}
	for _, d := range e.SupportingDocuments {
		j.SupportingDocuments = append(j.SupportingDocuments, DocumentJSON{
			Name: d.Name, Type: d.MediaType, Size: d.Size, Content: d.Content,
		})
	}
	return j
}

// DocumentsFromJSON converts uploaded file descriptors.
func DocumentsFromJSON(docs []DocumentJSON) []timesheet.Document {
	if len(docs) == 0 {
		return nil
	}
	out := make([]timesheet.Document, len(docs))
	for i, d := range docs {
		out[i] = timesheet.Document{Name: d.Name, MediaType: d.Type, Size: d.Size, Content: d.Content}
	}
	return out
}

// =============================================================================
// MONTHS
// =============================================================================

// EncodeMonth renders a month as {"YYYY-MM-DD": entry|null}.
func EncodeMonth(m timesheet.Month) ([]byte, error) {
	return json.Marshal(MonthToJSON(m))
}

// MonthToJSON converts a month to its wire form.
func MonthToJSON(m timesheet.Month) map[string]*EntryJSON {
	out := make(map[string]*EntryJSON, len(m))
	for d, e := range m {
		if e == nil {
			out[d.String()] = nil
			continue
		}
		j := EntryToJSON(*e)
		j.Date = d.String()
		out[d.String()] = &j
	}
	return out
}

// DecodeMonth parses the storage form written by EncodeMonth.
func DecodeMonth(data []byte) (timesheet.Month, error) {
	var raw map[string]*EntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid month JSON: %w", err)
	}
	m := make(timesheet.Month, len(raw))
	for key, j := range raw {
		d, err := generic.ParseDate(key)
		if err != nil {
			return nil, err
		}
		if j == nil {
			m[d] = nil
			continue
		}
		e, err := EntryFromJSON(*j)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", key, err)
		}
		e.Date = d
		m[d] = &e
	}
	return m, nil
}

// =============================================================================
// BULK REQUESTS
// =============================================================================

// BulkFromJSON converts a bulk edit payload.
func BulkFromJSON(j BulkJSON) (timesheet.BulkRequest, error) {
	var r timesheet.BulkRequest

	tpl, err := EntryFromJSON(j.Template)
	if err != nil {
		return r, fmt.Errorf("template: %w", err)
	}
	r.Template = tpl

	for _, s := range j.Dates {
		d, err := generic.ParseDate(s)
		if err != nil {
			return r, fmt.Errorf("dates: %w", err)
		}
		r.Dates = append(r.Dates, d)
	}

	if len(j.IndividualModifications) > 0 {
		r.IndividualModifications = make(map[generic.TimePoint]timesheet.EntryOverride, len(j.IndividualModifications))
		for key, o := range j.IndividualModifications {
			d, err := generic.ParseDate(key)
			if err != nil {
				return r, fmt.Errorf("individualModifications: %w", err)
			}
			override, err := overrideFromJSON(o)
			if err != nil {
				return r, fmt.Errorf("individualModifications[%s]: %w", key, err)
			}
			r.IndividualModifications[d] = override
		}
	}

	r.Documents = DocumentsFromJSON(j.Files)
	if r.PrimaryDocumentDay, err = optionalDate(j.PrimaryDocumentDay); err != nil {
		return r, fmt.Errorf("primaryDocumentDay: %w", err)
	}
	return r, nil
}

func overrideFromJSON(o OverrideJSON) (timesheet.EntryOverride, error) {
	var out timesheet.EntryOverride
	var err error

	out.Notes = o.Notes
	out.CustomType = o.OtherType
	if o.HalfDayPeriod != nil {
		p := timesheet.HalfDayPeriod(strings.ToUpper(*o.HalfDayPeriod))
		out.HalfDayPeriod = &p
	}
	if o.StartTime != nil {
		if out.StartTime, err = optionalClock(*o.StartTime); err != nil {
			return out, fmt.Errorf("startTime: %w", err)
		}
	}
	if o.EndTime != nil {
		if out.EndTime, err = optionalClock(*o.EndTime); err != nil {
			return out, fmt.Errorf("endTime: %w", err)
		}
	}
	if o.DateEarned != nil {
		if out.DateEarned, err = optionalDate(*o.DateEarned); err != nil {
			return out, fmt.Errorf("dateEarned: %w", err)
		}
	}
	return out, nil
}

// =============================================================================
// STATUS & PRESETS
// =============================================================================

func EncodeStatus(r timesheet.StatusRecord) ([]byte, error) {
	j := StatusJSON{Status: string(r.Status), UpdatedBy: r.UpdatedBy, Comment: r.Comment}
	if !r.UpdatedAt.IsZero() {
		j.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(j)
}

func DecodeStatus(data []byte) (timesheet.StatusRecord, error) {
	var j StatusJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return timesheet.StatusRecord{}, fmt.Errorf("invalid status JSON: %w", err)
	}
	r := timesheet.StatusRecord{Status: timesheet.Status(j.Status), UpdatedBy: j.UpdatedBy, Comment: j.Comment}
	if !r.Status.Valid() {
		return timesheet.StatusRecord{}, fmt.Errorf("invalid status %q", j.Status)
	}
	if j.UpdatedAt != "" {
		t, err := time.Parse(time.RFC3339, j.UpdatedAt)
		if err != nil {
			return timesheet.StatusRecord{}, fmt.Errorf("updatedAt: %w", err)
		}
		r.UpdatedAt = t
	}
	return r, nil
}

func PresetToJSON(p timesheet.Preset) PresetJSON {
	return PresetJSON{
		ID:        p.ID,
		Label:     p.Label,
		StartTime: p.StartTime.String(),
		EndTime:   p.EndTime.String(),
		Custom:    p.Custom,
	}
}

func PresetFromJSON(j PresetJSON) (timesheet.Preset, error) {
	start, err := generic.ParseClockTime(j.StartTime)
	if err != nil {
		return timesheet.Preset{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := generic.ParseClockTime(j.EndTime)
	if err != nil {
		return timesheet.Preset{}, fmt.Errorf("endTime: %w", err)
	}
	p := timesheet.Preset{ID: j.ID, Label: j.Label, StartTime: start, EndTime: end, Custom: j.Custom}
	if p.Label == "" {
		p.Label = p.DisplayLabel()
	}
	return p, nil
}

func EncodePresets(presets []timesheet.Preset) ([]byte, error) {
	out := make([]PresetJSON, len(presets))
	for i, p := range presets {
		out[i] = PresetToJSON(p)
	}
	return json.Marshal(out)
}

func DecodePresets(data []byte) ([]timesheet.Preset, error) {
	var raw []PresetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid presets JSON: %w", err)
	}
	out := make([]timesheet.Preset, 0, len(raw))
	for _, j := range raw {
		p, err := PresetFromJSON(j)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", j.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func optionalClock(s string) (*generic.ClockTime, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := generic.ParseClockTime(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func optionalDate(s string) (*generic.TimePoint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := generic.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &d, nil
}
