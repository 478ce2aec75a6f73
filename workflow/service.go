/*
Package workflow connects the timesheet rules to persistence and the approval lifecycle.

PURPOSE:
  The timesheet package is pure. This package is where months are read
  from and written to the injected repository, where editability is
  enforced from the month's status, and where submit/approve/reject move
  that status.

WRITE RULES:
  - Entries are written only after the validator (single) or the expander
    (bulk) accepts them.
  - A bulk edit is written with one Put of the whole month, so either every
    expanded day lands or none does.
  - Writes are refused unless the month is draft or rejected. The first
    write to a month with no status creates it as draft.

STATUS METADATA:
  Only the last transition is kept (status, actor, time, comment).

SEE ALSO:
  - timesheet/: validation, completion, submission gate, bulk expansion
  - factory/entry.go: storage encoding
  - generic/store.go: Repository interface
*/
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// Service handles timesheet reads, writes and status changes for all users.
type Service struct {
	Repo      generic.Repository
	Validator *timesheet.Validator
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewService wires a service with the system clock.
func NewService(repo generic.Repository, validator *timesheet.Validator, logger *slog.Logger) *Service {
	if validator == nil {
		validator = timesheet.NewValidator(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Repo: repo, Validator: validator, Logger: logger, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// =============================================================================
// READS
// =============================================================================

// LoadMonth returns the stored entries of a user's month; an unknown month
// is empty.
func (s *Service) LoadMonth(ctx context.Context, userID string, year int, month time.Month) (timesheet.Month, error) {
	data, found, err := s.Repo.Get(ctx, monthKey(userID, year, month))
	if err != nil {
		return nil, fmt.Errorf("failed to load timesheet: %w", err)
	}
	if !found {
		return timesheet.Month{}, nil
	}
	m, err := factory.DecodeMonth(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode timesheet %s/%s: %w", userID, generic.MonthKey(year, month), err)
	}
	return m, nil
}

// Status returns the month's status metadata; StatusNA when none exists.
func (s *Service) Status(ctx context.Context, userID string, year int, month time.Month) (timesheet.StatusRecord, error) {
	data, found, err := s.Repo.Get(ctx, statusKey(userID, year, month))
	if err != nil {
		return timesheet.StatusRecord{}, fmt.Errorf("failed to load status: %w", err)
	}
	if !found {
		return timesheet.StatusRecord{Status: timesheet.StatusNA}, nil
	}
	return factory.DecodeStatus(data)
}

// Evaluate runs the submission gate without changing anything.
func (s *Service) Evaluate(ctx context.Context, userID string, year int, month time.Month) (timesheet.SubmissionReport, error) {
	m, err := s.LoadMonth(ctx, userID, year, month)
	if err != nil {
		return timesheet.SubmissionReport{}, err
	}
	return s.Validator.EvaluateSubmission(m, year, month), nil
}

// =============================================================================
// WRITES
// =============================================================================

// SaveEntry validates e and stores it over its date. A document reference
// must resolve to the primary documents of a day in the same month. Invalid
// entries are not stored; the returned Result lists every violation.
func (s *Service) SaveEntry(ctx context.Context, userID string, e timesheet.Entry) (timesheet.Result, error) {
	if e.Date.IsZero() {
		return timesheet.Result{}, fmt.Errorf("%w: entry date is required", generic.ErrInvalidDate)
	}
	year, month := e.Date.Year(), e.Date.Month()
	status, err := s.ensureEditable(ctx, userID, year, month)
	if err != nil {
		return timesheet.Result{}, err
	}

	res := s.Validator.Validate(e)
	if !res.Valid {
		return res, fmt.Errorf("%w: %s", generic.ErrInvalidEntry, strings.Join(res.Errors, "; "))
	}

	m, err := s.LoadMonth(ctx, userID, year, month)
	if err != nil {
		return res, err
	}
	updated := m.Apply([]timesheet.Entry{e})
	if refErrs := timesheet.ReferenceErrors(updated, e); len(refErrs) > 0 {
		res = timesheet.Result{Valid: false, Errors: refErrs}
		return res, fmt.Errorf("%w: %s", generic.ErrInvalidEntry, strings.Join(refErrs, "; "))
	}
	if err := s.putMonth(ctx, userID, year, month, updated); err != nil {
		return res, err
	}
	return res, s.ensureDraft(ctx, userID, year, month, status)
}

// DeleteEntry clears a day.
func (s *Service) DeleteEntry(ctx context.Context, userID string, date generic.TimePoint) error {
	year, month := date.Year(), date.Month()
	if _, err := s.ensureEditable(ctx, userID, year, month); err != nil {
		return err
	}
	m, err := s.LoadMonth(ctx, userID, year, month)
	if err != nil {
		return err
	}
	if _, ok := m[date]; !ok {
		return nil
	}
	delete(m, date)
	return s.putMonth(ctx, userID, year, month, m)
}

// ApplyBulk expands a bulk edit and stores every resulting entry at once.
// All dates must fall in one month.
func (s *Service) ApplyBulk(ctx context.Context, userID string, r timesheet.BulkRequest) ([]timesheet.Entry, error) {
	if len(r.Dates) == 0 {
		return nil, &timesheet.BulkError{Errors: []string{"At least one date must be selected"}}
	}
	year, month := r.Dates[0].Year(), r.Dates[0].Month()
	period := generic.MonthPeriod(year, month)
	for _, d := range r.Dates {
		if !period.Contains(d) {
			return nil, fmt.Errorf("%w: %s is not in %s", generic.ErrOutOfPeriod, d, generic.MonthKey(year, month))
		}
	}

	status, err := s.ensureEditable(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	entries, err := s.Validator.Expand(r)
	if err != nil {
		return nil, err
	}

	m, err := s.LoadMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if err := s.putMonth(ctx, userID, year, month, m.Apply(entries)); err != nil {
		return nil, err
	}
	if err := s.ensureDraft(ctx, userID, year, month, status); err != nil {
		return nil, err
	}

	s.Logger.Info("bulk entries saved",
		slog.String("user", userID),
		slog.String("period", generic.MonthKey(year, month)),
		slog.String("type", r.Template.TypeTag()),
		slog.Int("days", len(entries)))
	return entries, nil
}

// =============================================================================
// STATUS WORKFLOW
// =============================================================================

// Submit runs the submission gate and moves the month to pending.
func (s *Service) Submit(ctx context.Context, userID string, year int, month time.Month) (timesheet.SubmissionReport, error) {
	current, err := s.Status(ctx, userID, year, month)
	if err != nil {
		return timesheet.SubmissionReport{}, err
	}
	from := current.Status
	if from == timesheet.StatusNA {
		from = timesheet.StatusDraft
	}
	next, err := timesheet.Transition(from, timesheet.ActionSubmit)
	if err != nil {
		return timesheet.SubmissionReport{}, err
	}

	m, err := s.LoadMonth(ctx, userID, year, month)
	if err != nil {
		return timesheet.SubmissionReport{}, err
	}
	report := s.Validator.EvaluateSubmission(m, year, month)
	if !report.OK() {
		s.Logger.Info("submission rejected",
			slog.String("user", userID),
			slog.String("period", generic.MonthKey(year, month)),
			slog.Int("problems", len(report.Problems)))
		return report, &timesheet.SubmissionError{Report: report}
	}

	if err := s.putStatus(ctx, userID, year, month, timesheet.StatusRecord{Status: next, UpdatedBy: userID}); err != nil {
		return report, err
	}
	s.Logger.Info("timesheet submitted",
		slog.String("user", userID),
		slog.String("period", generic.MonthKey(year, month)),
		slog.String("completion", report.Completion.Rate.StringFixed(2)))
	return report, nil
}

// Approve moves a pending month to approved.
func (s *Service) Approve(ctx context.Context, userID string, year int, month time.Month, reviewerID, comment string) (timesheet.StatusRecord, error) {
	return s.review(ctx, userID, year, month, timesheet.ActionApprove, reviewerID, comment)
}

// Reject moves a pending month to rejected, which makes it editable again.
func (s *Service) Reject(ctx context.Context, userID string, year int, month time.Month, reviewerID, reason string) (timesheet.StatusRecord, error) {
	return s.review(ctx, userID, year, month, timesheet.ActionReject, reviewerID, reason)
}

func (s *Service) review(ctx context.Context, userID string, year int, month time.Month, action timesheet.Action, reviewerID, comment string) (timesheet.StatusRecord, error) {
	current, err := s.Status(ctx, userID, year, month)
	if err != nil {
		return timesheet.StatusRecord{}, err
	}
	next, err := timesheet.Transition(current.Status, action)
	if err != nil {
		return timesheet.StatusRecord{}, err
	}
	rec := timesheet.StatusRecord{Status: next, UpdatedBy: reviewerID, Comment: comment}
	if err := s.putStatus(ctx, userID, year, month, rec); err != nil {
		return timesheet.StatusRecord{}, err
	}
	s.Logger.Info("timesheet reviewed",
		slog.String("user", userID),
		slog.String("period", generic.MonthKey(year, month)),
		slog.String("action", string(action)),
		slog.String("reviewer", reviewerID))
	return s.Status(ctx, userID, year, month)
}

// UserStatus is one row of the administrator overview.
type UserStatus struct {
	UserID string
	Record timesheet.StatusRecord
}

// StatusOverview lists every user with a status for year/month, ordered
// by user. It needs a repository that can scan keys.
func (s *Service) StatusOverview(ctx context.Context, year int, month time.Month) ([]UserStatus, error) {
	scanner, ok := s.Repo.(generic.ScanRepository)
	if !ok {
		return nil, generic.ErrStoreRequired
	}
	prefix := statusPrefix(year, month)
	values, err := scanner.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan statuses: %w", err)
	}

	out := make([]UserStatus, 0, len(values))
	for key, data := range values {
		rec, err := factory.DecodeStatus(data)
		if err != nil {
			return nil, fmt.Errorf("status %s: %w", key, err)
		}
		out = append(out, UserStatus{UserID: strings.TrimPrefix(key, prefix), Record: rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) ensureEditable(ctx context.Context, userID string, year int, month time.Month) (timesheet.Status, error) {
	rec, err := s.Status(ctx, userID, year, month)
	if err != nil {
		return "", err
	}
	if rec.Status != timesheet.StatusNA && !rec.Status.Editable() {
		return rec.Status, fmt.Errorf("%w: %s is %s", generic.ErrNotEditable, generic.MonthKey(year, month), rec.Status)
	}
	return rec.Status, nil
}

// ensureDraft opens the month as draft on its first write.
func (s *Service) ensureDraft(ctx context.Context, userID string, year int, month time.Month, current timesheet.Status) error {
	if current != timesheet.StatusNA {
		return nil
	}
	return s.putStatus(ctx, userID, year, month, timesheet.StatusRecord{Status: timesheet.StatusDraft, UpdatedBy: userID})
}

func (s *Service) putMonth(ctx context.Context, userID string, year int, month time.Month, m timesheet.Month) error {
	data, err := factory.EncodeMonth(m)
	if err != nil {
		return fmt.Errorf("failed to encode timesheet: %w", err)
	}
	if err := s.Repo.Put(ctx, monthKey(userID, year, month), data); err != nil {
		return fmt.Errorf("failed to save timesheet: %w", err)
	}
	return nil
}

func (s *Service) putStatus(ctx context.Context, userID string, year int, month time.Month, rec timesheet.StatusRecord) error {
	rec.UpdatedAt = s.now()
	data, err := factory.EncodeStatus(rec)
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if err := s.Repo.Put(ctx, statusKey(userID, year, month), data); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

func monthKey(userID string, year int, month time.Month) string {
	return "timesheet/" + userID + "/" + generic.MonthKey(year, month)
}

// Status keys lead with the period so one scan lists a month across users.
func statusKey(userID string, year int, month time.Month) string {
	return statusPrefix(year, month) + userID
}

func statusPrefix(year int, month time.Month) string {
	return "status/" + generic.MonthKey(year, month) + "/"
}
