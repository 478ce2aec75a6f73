package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// CUSTOM HOURS PRESETS
// =============================================================================

// Presets returns the default presets followed by the user's own.
func (s *Service) Presets(ctx context.Context, userID string) ([]timesheet.Preset, error) {
	custom, err := s.customPresets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(timesheet.DefaultPresets(), custom...), nil
}

// AddPreset stores a custom preset after checking it against the
// working-hours rules.
func (s *Service) AddPreset(ctx context.Context, userID string, start, end generic.ClockTime) (timesheet.Preset, error) {
	p := timesheet.Preset{
		ID:        uuid.NewString(),
		StartTime: start,
		EndTime:   end,
		Custom:    true,
	}
	p.Label = p.DisplayLabel()
	if res := p.Validate(); !res.Valid {
		return timesheet.Preset{}, fmt.Errorf("%w: %s", generic.ErrInvalidEntry, strings.Join(res.Errors, "; "))
	}

	custom, err := s.customPresets(ctx, userID)
	if err != nil {
		return timesheet.Preset{}, err
	}
	for _, existing := range append(timesheet.DefaultPresets(), custom...) {
		if existing.StartTime == start && existing.EndTime == end {
			return existing, nil
		}
	}

	if err := s.putPresets(ctx, userID, append(custom, p)); err != nil {
		return timesheet.Preset{}, err
	}
	s.Logger.Debug("preset added", slog.String("user", userID), slog.String("preset", p.ID))
	return p, nil
}

// RemovePreset deletes one of the user's custom presets.
func (s *Service) RemovePreset(ctx context.Context, userID, presetID string) error {
	custom, err := s.customPresets(ctx, userID)
	if err != nil {
		return err
	}
	kept := custom[:0]
	for _, p := range custom {
		if p.ID != presetID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(custom) {
		return fmt.Errorf("%w: %s", generic.ErrPresetNotFound, presetID)
	}
	return s.putPresets(ctx, userID, kept)
}

// ResolvePreset returns the preset's hours, looking in defaults and the
// user's custom presets.
func (s *Service) ResolvePreset(ctx context.Context, userID, presetID string) (timesheet.Preset, error) {
	all, err := s.Presets(ctx, userID)
	if err != nil {
		return timesheet.Preset{}, err
	}
	return timesheet.ResolvePreset(all, presetID)
}

func (s *Service) customPresets(ctx context.Context, userID string) ([]timesheet.Preset, error) {
	data, found, err := s.Repo.Get(ctx, presetsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	if !found {
		return nil, nil
	}
	return factory.DecodePresets(data)
}

func (s *Service) putPresets(ctx context.Context, userID string, presets []timesheet.Preset) error {
	data, err := factory.EncodePresets(presets)
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if err := s.Repo.Put(ctx, presetsKey(userID), data); err != nil {
		return fmt.Errorf("failed to save presets: %w", err)
	}
	return nil
}

func presetsKey(userID string) string {
	return "presets/" + userID
}
