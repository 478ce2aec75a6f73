package generic

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Display layouts accepted by ClockTime.Format.
const (
	Layout24Hour = "15:04"
	Layout12Hour = "3:04 PM"
)

// =============================================================================
// CLOCK TIME - Wall-clock HH:mm within a single day
// =============================================================================

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:mm" string (00:00 through 23:59).
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(Layout24Hour, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustParseClockTime is ParseClockTime for literals.
func MustParseClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// Minutes returns minutes elapsed since midnight.
func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

func (c ClockTime) Before(other ClockTime) bool { return c.Minutes() < other.Minutes() }
func (c ClockTime) After(other ClockTime) bool  { return c.Minutes() > other.Minutes() }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Format renders the clock time with a Go time layout such as Layout12Hour.
func (c ClockTime) Format(layout string) string {
	return time.Date(2000, time.January, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format(layout)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// =============================================================================
// SPAN - Duration between two clock times on the same day
// =============================================================================

// Span is the result of Duration. Negative totals mean end is before start;
// there is no wrap past midnight.
type Span struct {
	Hours        int
	Minutes      int
	TotalMinutes int
}

// Duration computes end - start as a same-day span.
func Duration(start, end ClockTime) Span {
	total := end.Minutes() - start.Minutes()
	return Span{
		Hours:        total / 60,
		Minutes:      total % 60,
		TotalMinutes: total,
	}
}

// DecimalHours returns the span in fractional hours, e.g. 8h30m -> 8.5.
func (s Span) DecimalHours() decimal.Decimal {
	return decimal.NewFromInt(int64(s.TotalMinutes)).Div(decimal.NewFromInt(60))
}

func (s Span) String() string {
	return fmt.Sprintf("%dh %dm", s.Hours, s.Minutes)
}
