package scheduling

import (
	"strings"
	"time"
)

// Shift is one of the three daily teaching periods.
type Shift string

const (
	ShiftNone      Shift = ""
	ShiftMorning   Shift = "Manhã"
	ShiftAfternoon Shift = "Tarde"
	ShiftEvening   Shift = "Noite"
)

type shiftBand struct {
	shift     Shift
	startHour int
	endHour   int
}

// Bands are half-open: the start hour belongs to the shift, the end hour does not.
var shiftBands = []shiftBand{
	{shift: ShiftMorning, startHour: 6, endHour: 12},
	{shift: ShiftAfternoon, startHour: 12, endHour: 18},
	{shift: ShiftEvening, startHour: 18, endHour: 24},
}

// rolloverEndHour is the hour until which the previous day's evening shift is still running.
const rolloverEndHour = 6

// AllShifts returns the shifts in chronological order.
func AllShifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}
}

// ParseShift resolves a stored shift name, case-insensitively.
func ParseShift(raw string) (Shift, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range AllShifts() {
		if strings.ToLower(string(s)) == norm {
			return s, true
		}
	}
	return ShiftNone, false
}

// ShiftForHour maps an hour of the day to its shift. Hours before 06:00 have no shift.
func ShiftForHour(hour int) Shift {
	for _, b := range shiftBands {
		if hour >= b.startHour && hour < b.endHour {
			return b.shift
		}
	}
	return ShiftNone
}

// ClockRange returns the canonical clock range of the shift. ShiftNone yields an
// empty range that overlaps nothing.
func (s Shift) ClockRange() ClockRange {
	for _, b := range shiftBands {
		if b.shift == s {
			return ClockRange{
				Start: ClockTime(b.startHour * minutesPerHour),
				End:   ClockTime(b.endHour * minutesPerHour),
			}
		}
	}
	return ClockRange{}
}

// EffectiveShiftAndDate resolves which shift and calendar day "now" belongs to.
// Between midnight and 06:00 the previous day's evening shift is still in progress.
func EffectiveShiftAndDate(now time.Time) (Shift, Date) {
	today := DateOf(now)
	if now.Hour() < rolloverEndHour {
		return ShiftEvening, today.AddDays(-1)
	}
	return ShiftForHour(now.Hour()), today
}
