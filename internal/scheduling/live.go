package scheduling

import "time"

// ActiveGroup is a class group currently being taught, with its room name when known.
type ActiveGroup struct {
	ClassGroup
	ClassroomName *string `json:"classroom_name"`
}

// FilterActiveGroups returns the in-progress groups whose shift and class day match
// the effective shift and date of now, preserving input order.
func FilterActiveGroups(groups []ClassGroup, now time.Time) []ClassGroup {
	shift, date := EffectiveShiftAndDate(now)
	if shift == ShiftNone {
		return []ClassGroup{}
	}
	weekday := date.Weekday()

	active := make([]ClassGroup, 0)
	for _, g := range groups {
		if g.Status != GroupInProgress || g.Shift != shift {
			continue
		}
		if !g.ClassDays.Has(weekday) || !g.Period().Contains(date) {
			continue
		}
		active = append(active, g)
	}
	return active
}

// ActiveGroupsForDisplay filters groups for now and attaches the assigned classroom name.
func ActiveGroupsForDisplay(groups []ClassGroup, classrooms []Classroom, now time.Time) []ActiveGroup {
	rooms := Snapshot{Classrooms: classrooms}.ClassroomIndex()
	filtered := FilterActiveGroups(groups, now)
	out := make([]ActiveGroup, 0, len(filtered))
	for _, g := range filtered {
		entry := ActiveGroup{ClassGroup: g}
		if room, ok := rooms[g.ClassroomID]; ok && g.ClassroomID != "" {
			name := room.Name
			entry.ClassroomName = &name
		}
		out = append(out, entry)
	}
	return out
}
