/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  The timesheet package wraps these with structured types that carry the
  full list of violated rules.

ERROR CATEGORIES:
  1. Parse errors - malformed dates and clock times
  2. Rule errors - entry, bulk and submission preconditions
  3. Workflow errors - status transitions and editability
  4. Store errors - missing records and repository capabilities

USAGE:
  if errors.Is(err, generic.ErrSubmissionRejected) {
      var subErr *timesheet.SubmissionError
      errors.As(err, &subErr) // full report
  }

SEE ALSO:
  - timesheet/submission.go: SubmissionError
  - timesheet/bulk.go: BulkError
  - api/handlers.go: maps these to HTTP status codes
*/
package generic

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidClockTime is returned for clock times that are not HH:mm.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidEntry is returned when a single entry fails validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrExpansionRejected is returned when a bulk edit cannot be expanded.
	// Nothing is produced for any date of the batch.
	ErrExpansionRejected = errors.New("bulk expansion rejected")

	// ErrSubmissionRejected is returned when a month fails the submission gate.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrNoWorkingDays is returned when a period has no Monday..Friday dates.
	ErrNoWorkingDays = errors.New("period has no working days")

	// ErrNotEditable is returned when the timesheet status forbids edits.
	ErrNotEditable = errors.New("timesheet is not editable")

	// ErrInvalidStatusTransition is returned for workflow moves the
	// current status does not allow.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrPresetNotFound is returned when a custom hours preset id is unknown.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrOutOfPeriod is returned when an entry date is outside the month it
	// is saved into.
	ErrOutOfPeriod = errors.New("date outside timesheet period")

	// ErrStoreRequired is returned when an operation requires a specific store capability.
	ErrStoreRequired = errors.New("operation requires extended store interface")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, ErrExpansionRejected) ||
		errors.Is(err, ErrSubmissionRejected) ||
		errors.Is(err, ErrOutOfPeriod) ||
		errors.Is(err, ErrNoWorkingDays)
}

// IsConflict returns true if the request clashes with the workflow state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNotEditable) ||
		errors.Is(err, ErrInvalidStatusTransition)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPresetNotFound)
}
