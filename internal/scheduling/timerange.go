package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidClockTime is returned when a value is not a valid HH:mm string.
	ErrInvalidClockTime = errors.New("scheduling: invalid clock time")
	// ErrInvalidDate is returned when a value is not an ISO calendar date or timestamp.
	ErrInvalidDate = errors.New("scheduling: invalid date")
	// ErrEmptyClockRange is returned when a clock range does not end after it starts.
	ErrEmptyClockRange = errors.New("scheduling: clock range ends before it starts")
)

const (
	dateLayout     = "2006-01-02"
	minutesPerDay  = 24 * 60
	minutesPerHour = 60
)

// ClockTime is a wall-clock time of day expressed in minutes since midnight.
type ClockTime int

// ParseClockTime parses a strict two-digit "HH:mm" 24-hour value.
func ParseClockTime(raw string) (ClockTime, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	hour, ok := twoDigits(raw[0:2])
	if !ok || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	minute, ok := twoDigits(raw[3:5])
	if !ok || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	return ClockTime(hour*minutesPerHour + minute), nil
}

// String renders the value as HH:mm. The end-of-day bound renders as 24:00.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/minutesPerHour, int(c)%minutesPerHour)
}

// MarshalText renders the value for JSON payloads.
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a strict HH:mm value.
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// MinutesSinceMidnight converts "HH:mm" to minutes. ok is false for malformed input.
func MinutesSinceMidnight(raw string) (minutes int, ok bool) {
	c, err := ParseClockTime(raw)
	if err != nil {
		return 0, false
	}
	return int(c), true
}

// ClockRange is a half-open [Start, End) interval of the day.
type ClockRange struct {
	Start ClockTime
	End   ClockTime
}

// Valid reports whether the range is non-degenerate.
func (r ClockRange) Valid() bool {
	return r.Start < r.End
}

// Overlaps reports whether two ranges share at least one minute. Ranges that only
// touch at an endpoint do not overlap.
func (r ClockRange) Overlaps(other ClockRange) bool {
	if !r.Valid() || !other.Valid() {
		return false
	}
	return r.Start < other.End && r.End > other.Start
}

// TimeRangesOverlap tests two "HH:mm" ranges for overlap. Malformed or degenerate
// ranges never overlap.
func TimeRangesOverlap(startA, endA, startB, endB string) bool {
	a, err := ParseClockRange(startA, endA)
	if err != nil {
		return false
	}
	b, err := ParseClockRange(startB, endB)
	if err != nil {
		return false
	}
	return a.Overlaps(b)
}

// ParseClockRange parses both bounds; it does not reject start >= end.
func ParseClockRange(start, end string) (ClockRange, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return ClockRange{}, err
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return ClockRange{}, err
	}
	return ClockRange{Start: s, End: e}, nil
}

// Date is a calendar date without time zone semantics.
type Date struct {
	t time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the wall-clock calendar date of t in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts YYYY-MM-DD or a full ISO timestamp and keeps the wall-clock date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return DateOf(t), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether both dates name the same day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Weekday returns the day of the week.
func (d Date) Weekday() Weekday { return weekdayFromTime(d.t.Weekday()) }

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, loc)
}

// String renders YYYY-MM-DD.
func (d Date) String() string { return d.t.Format(dateLayout) }

// MarshalText renders the date for JSON payloads.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses YYYY-MM-DD or ISO timestamps.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive [Start, End] span of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// ParseDateRange parses both bounds; it does not reject start > end.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Valid reports whether Start <= End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Contains reports whether d falls within the range, both ends inclusive.
func (r DateRange) Contains(d Date) bool {
	return r.Valid() && !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	if !r.Valid() || !other.Valid() {
		return false
	}
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// DateRangesOverlap tests two inclusive ISO date ranges for overlap. Malformed or
// inverted ranges never overlap.
func DateRangesOverlap(startA, endA, startB, endB string) bool {
	a, err := ParseDateRange(startA, endA)
	if err != nil {
		return false
	}
	b, err := ParseDateRange(startB, endB)
	if err != nil {
		return false
	}
	return a.Overlaps(b)
}
