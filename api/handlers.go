/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the timesheet workflow via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the workflow
  service and the timesheet rules.

ENDPOINTS:
  Timesheets (per user and month):
    GET    /api/timesheets/{user}/{year}/{month}                  Month, status, completion
    GET    /api/timesheets/{user}/{year}/{month}/completion       Submission gate preview
    PUT    /api/timesheets/{user}/{year}/{month}/entries/{date}   Save one entry
    DELETE /api/timesheets/{user}/{year}/{month}/entries/{date}   Clear one day
    POST   /api/timesheets/{user}/{year}/{month}/bulk             Bulk edit
    POST   /api/timesheets/{user}/{year}/{month}/submit           Submit for approval
    POST   /api/timesheets/{user}/{year}/{month}/approve          Approve (reviewer)
    POST   /api/timesheets/{user}/{year}/{month}/reject           Reject (reviewer)

  Validation only (nothing stored):
    POST   /api/validate/entry                                    Validate one entry
    POST   /api/validate/bulk                                     Pre-expansion bulk check

  Presets:
    GET    /api/presets/{user}                                    Defaults + custom
    POST   /api/presets/{user}                                    Add custom preset
    DELETE /api/presets/{user}/{id}                               Remove custom preset

  Reference and admin:
    GET    /api/entry-types                                       Type catalogue
    GET    /api/admin/timesheets/{year}/{month}                   Status of every user

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input, dates outside the addressed month
  - 404: Unknown preset
  - 409: Month not editable, illegal status transition
  - 422: Entry, bulk edit or submission rejected by the rules; the
         messages field lists every violation
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication. The {user} path segment and reviewerId are trusted.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - workflow/service.go: Persistence and status workflow
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
	"github.com/warp/timesheet-engine/workflow"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *workflow.Service
	Logger  *slog.Logger
}

// NewHandler creates a new handler around the workflow service.
func NewHandler(svc *workflow.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Logger: logger}
}

// monthParams reads {user}/{year}/{month} from the route.
func monthParams(r *http.Request) (string, int, time.Month, error) {
	user := chi.URLParam(r, "user")
	if user == "" {
		return "", 0, 0, errors.New("user is required")
	}
	year, month, err := periodParams(r)
	return user, year, month, err
}

func periodParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year %q", chi.URLParam(r, "year"))
	}
	m, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || !generic.ValidMonth(time.Month(m)) {
		return 0, 0, fmt.Errorf("invalid month %q", chi.URLParam(r, "month"))
	}
	return year, time.Month(m), nil
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// GetMonth returns the stored entries with status and completion.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}
	ctx := r.Context()

	entries, err := h.Service.LoadMonth(ctx, user, year, month)
	if err != nil {
		h.writeServiceError(w, "Failed to load timesheet", err)
		return
	}
	status, err := h.Service.Status(ctx, user, year, month)
	if err != nil {
		h.writeServiceError(w, "Failed to load status", err)
		return
	}
	completion, err := timesheet.CompletionRate(entries, year, month)
	if err != nil {
		h.writeServiceError(w, "Failed to compute completion", err)
		return
	}

	abbrevs := make(map[string]string, len(entries))
	for d, e := range entries {
		if e != nil {
			abbrevs[d.String()] = timesheet.Abbreviation(*e)
		}
	}

	writeJSON(w, http.StatusOK, MonthDTO{
		UserID:        user,
		Period:        generic.MonthKey(year, month),
		Status:        toStatusDTO(status),
		Entries:       factory.MonthToJSON(entries),
		Abbreviations: abbrevs,
		Completion:    toCompletionDTO(completion),
	})
}

// GetCompletion previews the submission gate.
func (h *Handler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}
	report, err := h.Service.Evaluate(r.Context(), user, year, month)
	if err != nil {
		h.writeServiceError(w, "Failed to evaluate timesheet", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// SaveEntry validates and stores one entry. The path date wins when the
// body omits it; a mismatching body date is rejected.
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry date", err)
		return
	}
	if date.Year() != year || date.Month() != month {
		writeError(w, http.StatusBadRequest, "Invalid entry date",
			fmt.Errorf("%w: %s is not in %s", generic.ErrOutOfPeriod, date, generic.MonthKey(year, month)))
		return
	}

	var body factory.EntryJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Date == "" {
		body.Date = date.String()
	}
	entry, err := factory.EntryFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	if !entry.Date.Equal(date) {
		writeError(w, http.StatusBadRequest, "Invalid entry",
			fmt.Errorf("body date %s does not match path date %s", entry.Date, date))
		return
	}

	res, err := h.Service.SaveEntry(r.Context(), user, entry)
	if err != nil {
		if errors.Is(err, generic.ErrInvalidEntry) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:    "Entry is invalid",
				Messages: res.Errors,
			})
			return
		}
		h.writeServiceError(w, "Failed to save entry", err)
		return
	}

	writeJSON(w, http.StatusOK, SavedEntryDTO{
		Entry:        factory.EntryToJSON(entry),
		Abbreviation: timesheet.Abbreviation(entry),
	})
}

// DeleteEntry clears one day.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry date", err)
		return
	}
	if date.Year() != year || date.Month() != month {
		writeError(w, http.StatusBadRequest, "Invalid entry date",
			fmt.Errorf("%w: %s is not in %s", generic.ErrOutOfPeriod, date, generic.MonthKey(year, month)))
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), user, date); err != nil {
		h.writeServiceError(w, "Failed to delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyBulk expands a bulk edit and stores the resulting entries.
func (h *Handler) ApplyBulk(w http.ResponseWriter, r *http.Request) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}

	var body factory.BulkJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := factory.BulkFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bulk request", err)
		return
	}
	period := generic.MonthPeriod(year, month)
	for _, d := range req.Dates {
		if !period.Contains(d) {
			writeError(w, http.StatusBadRequest, "Invalid bulk request",
				fmt.Errorf("%w: %s is not in %s", generic.ErrOutOfPeriod, d, generic.MonthKey(year, month)))
			return
		}
	}

	entries, err := h.Service.ApplyBulk(r.Context(), user, req)
	if err != nil {
		var bulkErr *timesheet.BulkError
		if errors.As(err, &bulkErr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:    "Bulk edit rejected",
				Messages: bulkErr.Errors,
			})
			return
		}
		h.writeServiceError(w, "Failed to apply bulk edit", err)
		return
	}
	writeJSON(w, http.StatusOK, BulkResultDTO{Entries: toEntryJSONs(entries)})
}

// Submit moves the month to pending when the gate passes.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}
	ctx := r.Context()

	report, err := h.Service.Submit(ctx, user, year, month)
	if err != nil {
		var subErr *timesheet.SubmissionError
		if errors.As(err, &subErr) {
			writeJSON(w, http.StatusUnprocessableEntity, toReportDTO(subErr.Report))
			return
		}
		h.writeServiceError(w, "Failed to submit timesheet", err)
		return
	}

	dto := toReportDTO(report)
	if status, err := h.Service.Status(ctx, user, year, month); err == nil {
		s := toStatusDTO(status)
		dto.Status = &s
	}
	writeJSON(w, http.StatusOK, dto)
}

// Approve marks a pending month approved.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, timesheet.ActionApprove)
}

// Reject sends a pending month back to the user.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, timesheet.ActionReject)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, action timesheet.Action) {
	user, year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timesheet path", err)
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ReviewerID == "" {
		writeError(w, http.StatusBadRequest, "reviewerId is required", nil)
		return
	}

	var rec timesheet.StatusRecord
	if action == timesheet.ActionApprove {
		rec, err = h.Service.Approve(r.Context(), user, year, month, req.ReviewerID, req.Comment)
	} else {
		rec, err = h.Service.Reject(r.Context(), user, year, month, req.ReviewerID, req.Comment)
	}
	if err != nil {
		h.writeServiceError(w, "Failed to review timesheet", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusDTO(rec))
}

// =============================================================================
// VALIDATION-ONLY HANDLERS
// =============================================================================

// ValidateEntry checks one entry without storing it.
func (h *Handler) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	var body factory.EntryJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	entry, err := factory.EntryFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	res := h.Service.Validator.Validate(entry)
	dto := ValidationDTO{Valid: res.Valid, Errors: res.Errors}
	if res.Valid {
		dto.Abbreviation = timesheet.Abbreviation(entry)
	}
	writeJSON(w, http.StatusOK, dto)
}

// ValidateBulk runs the pre-expansion checks of a bulk edit.
func (h *Handler) ValidateBulk(w http.ResponseWriter, r *http.Request) {
	var body factory.BulkJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := factory.BulkFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bulk request", err)
		return
	}
	v := h.Service.Validator.ValidateBulk(req)
	writeJSON(w, http.StatusOK, BulkValidationDTO{IsValid: v.IsValid, Errors: v.Errors})
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns the default and custom hours presets.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.Service.Presets(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		h.writeServiceError(w, "Failed to list presets", err)
		return
	}
	dtos := make([]factory.PresetJSON, len(presets))
	for i, p := range presets {
		dtos[i] = factory.PresetToJSON(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePreset adds a custom hours preset.
func (h *Handler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req CreatePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := generic.ParseClockTime(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startTime", err)
		return
	}
	end, err := generic.ParseClockTime(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endTime", err)
		return
	}

	p, err := h.Service.AddPreset(r.Context(), chi.URLParam(r, "user"), start, end)
	if err != nil {
		h.writeServiceError(w, "Failed to create preset", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.PresetToJSON(p))
}

// DeletePreset removes a custom hours preset.
func (h *Handler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemovePreset(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete preset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REFERENCE & ADMIN HANDLERS
// =============================================================================

// ListEntryTypes returns every entry type with its field requirements.
func (h *Handler) ListEntryTypes(w http.ResponseWriter, r *http.Request) {
	types := timesheet.AllEntryTypes()
	dtos := make([]EntryTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = EntryTypeDTO{
			Type:               string(t),
			Label:              timesheet.Label(string(t)),
			Category:           string(t.Category()),
			Abbreviation:       timesheet.Initials(string(t)),
			RequiresTimes:      t.RequiresTimes(),
			RequiresHalfDay:    t.IsHalfDay(),
			RequiresDateEarned: t.RequiresDateEarned(),
			RequiresDocuments:  t.RequiresDocuments(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// StatusOverview lists each user's status for a month.
func (h *Handler) StatusOverview(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	rows, err := h.Service.StatusOverview(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, generic.ErrStoreRequired) {
			writeError(w, http.StatusNotImplemented, "Status overview is not supported by this store", err)
			return
		}
		h.writeServiceError(w, "Failed to list statuses", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserStatusDTOs(rows))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, generic.ErrInvalidEntry),
		errors.Is(err, generic.ErrExpansionRejected),
		errors.Is(err, generic.ErrSubmissionRejected):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
