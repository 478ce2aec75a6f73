/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Entries travel in
  their factory.EntryJSON form so the API and the store agree on one shape;
  everything else is wrapped here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done by the timesheet package, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/entry.go: EntryJSON, BulkJSON
*/
package api

import (
	"time"

	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
	"github.com/warp/timesheet-engine/workflow"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// MonthDTO is a user's timesheet for one month.
type MonthDTO struct {
	UserID        string                        `json:"userId"`
	Period        string                        `json:"period"` // YYYY-MM
	Status        StatusDTO                     `json:"status"`
	Entries       map[string]*factory.EntryJSON `json:"entries"`
	Abbreviations map[string]string             `json:"abbreviations"`
	Completion    CompletionDTO                 `json:"completion"`
}

// StatusDTO is the last-write status metadata.
type StatusDTO struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Editable  bool   `json:"editable"`
}

// CompletionDTO summarizes working-day coverage.
type CompletionDTO struct {
	WorkingDays int    `json:"workingDays"`
	Filled      int    `json:"filled"`
	Rate        string `json:"rate"` // decimal string, e.g. "0.8"
	Percent     int64  `json:"percent"`
}

// IncompleteEntryDTO is an entry failing validation.
type IncompleteEntryDTO struct {
	Date   string   `json:"date"`
	Errors []string `json:"errors"`
}

// SubmissionReportDTO is the submission gate result.
type SubmissionReportDTO struct {
	Period     string               `json:"period"`
	CanSubmit  bool                 `json:"canSubmit"`
	Completion CompletionDTO        `json:"completion"`
	Incomplete []IncompleteEntryDTO `json:"incomplete"`
	Problems   []string             `json:"problems"`
	Status     *StatusDTO           `json:"status,omitempty"`
}

// ValidationDTO is the single-entry validation result.
type ValidationDTO struct {
	Valid        bool     `json:"valid"`
	Errors       []string `json:"errors"`
	Abbreviation string   `json:"abbreviation,omitempty"`
}

// BulkValidationDTO is the bulk pre-expansion check result.
type BulkValidationDTO struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// SavedEntryDTO is returned after a successful single-entry save.
type SavedEntryDTO struct {
	Entry        factory.EntryJSON `json:"entry"`
	Abbreviation string            `json:"abbreviation"`
}

// BulkResultDTO lists the entries written by a bulk edit.
type BulkResultDTO struct {
	Entries []factory.EntryJSON `json:"entries"`
}

// ReviewRequest approves or rejects a pending timesheet.
type ReviewRequest struct {
	ReviewerID string `json:"reviewerId"`
	Comment    string `json:"comment,omitempty"`
}

// CreatePresetRequest adds a custom hours preset.
type CreatePresetRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// EntryTypeDTO describes one entry type for selectors.
type EntryTypeDTO struct {
	Type               string `json:"type"`
	Label              string `json:"label"`
	Category           string `json:"category"`
	Abbreviation       string `json:"abbreviation"`
	RequiresTimes      bool   `json:"requiresTimes"`
	RequiresHalfDay    bool   `json:"requiresHalfDay"`
	RequiresDateEarned bool   `json:"requiresDateEarned"`
	RequiresDocuments  bool   `json:"requiresDocuments"`
}

// UserStatusDTO is a row of the administrator status overview.
type UserStatusDTO struct {
	UserID string    `json:"userId"`
	Status StatusDTO `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toStatusDTO(r timesheet.StatusRecord) StatusDTO {
	dto := StatusDTO{
		Status:    string(r.Status),
		UpdatedBy: r.UpdatedBy,
		Comment:   r.Comment,
		Editable:  r.Status.Editable() || r.Status == timesheet.StatusNA,
	}
	if !r.UpdatedAt.IsZero() {
		dto.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toCompletionDTO(c timesheet.Completion) CompletionDTO {
	return CompletionDTO{
		WorkingDays: c.WorkingDays,
		Filled:      c.Filled,
		Rate:        c.Rate.String(),
		Percent:     c.Percent(),
	}
}

func toReportDTO(r timesheet.SubmissionReport) SubmissionReportDTO {
	dto := SubmissionReportDTO{
		Period:     generic.MonthKey(r.Year, r.Month),
		CanSubmit:  r.OK(),
		Completion: toCompletionDTO(r.Completion),
		Incomplete: []IncompleteEntryDTO{},
		Problems:   r.Problems,
	}
	if dto.Problems == nil {
		dto.Problems = []string{}
	}
	for _, ie := range r.Incomplete {
		dto.Incomplete = append(dto.Incomplete, IncompleteEntryDTO{Date: ie.Date.String(), Errors: ie.Errors})
	}
	return dto
}

func toEntryJSONs(entries []timesheet.Entry) []factory.EntryJSON {
	out := make([]factory.EntryJSON, len(entries))
	for i, e := range entries {
		out[i] = factory.EntryToJSON(e)
	}
	return out
}

func toUserStatusDTOs(rows []workflow.UserStatus) []UserStatusDTO {
	out := make([]UserStatusDTO, len(rows))
	for i, r := range rows {
		out[i] = UserStatusDTO{UserID: r.UserID, Status: toStatusDTO(r.Record)}
	}
	return out
}
