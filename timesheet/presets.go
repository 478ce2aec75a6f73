package timesheet

import (
	"fmt"

	"github.com/warp/timesheet-engine/generic"
)

// Preset is a named start/end pair offered when recording working hours.
type Preset struct {
	ID        string
	Label     string
	StartTime generic.ClockTime
	EndTime   generic.ClockTime
	Custom    bool
}

// DefaultPresets are offered to every user before their custom presets.
func DefaultPresets() []Preset {
	return []Preset{
		defaultPreset("default-0900-1800", "09:00", "18:00"),
		defaultPreset("default-0830-1730", "08:30", "17:30"),
		defaultPreset("default-0800-1700", "08:00", "17:00"),
		defaultPreset("default-1000-1900", "10:00", "19:00"),
	}
}

func defaultPreset(id, start, end string) Preset {
	p := Preset{
		ID:        id,
		StartTime: generic.MustParseClockTime(start),
		EndTime:   generic.MustParseClockTime(end),
	}
	p.Label = p.DisplayLabel()
	return p
}

// DisplayLabel renders the preset in 12-hour form, e.g. "9:00 AM - 6:00 PM".
func (p Preset) DisplayLabel() string {
	return fmt.Sprintf("%s - %s",
		p.StartTime.Format(generic.Layout12Hour), p.EndTime.Format(generic.Layout12Hour))
}

// Validate reports preset problems using the working-hours time rules.
func (p Preset) Validate() Result {
	start, end := p.StartTime, p.EndTime
	return newResult(checkTimes(Entry{Type: TypeWorkingHours, StartTime: &start, EndTime: &end}))
}

// ResolvePreset finds id among presets.
func ResolvePreset(presets []Preset, id string) (Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", generic.ErrPresetNotFound, id)
}

// ApplyPreset returns a copy of e with the preset's hours filled in.
func ApplyPreset(e Entry, p Preset) Entry {
	out := e.Clone()
	start, end := p.StartTime, p.EndTime
	out.StartTime = &start
	out.EndTime = &end
	return out
}
