package scheduling

// Conflict names an existing booking that collides with a candidate reservation.
type Conflict struct {
	Kind   OccupancyKind `json:"type"`
	WithID string        `json:"with_id"`
	Label  string        `json:"label"`
	Shift  Shift         `json:"shift,omitempty"`
}

// EventConflicts lists what already occupies the candidate's room during its clock
// range on its date. Other events collide when their clock ranges overlap at any
// hour; classes and recurring reservations hold the whole shift. An empty candidate
// range collides with nothing.
func EventConflicts(candidate EventReservation, snap Snapshot) []Conflict {
	span := candidate.Span()
	if !span.Valid() {
		return nil
	}

	conflicts := make([]Conflict, 0)
	for _, ev := range snap.EventReservations {
		if ev.ID == candidate.ID || ev.ClassroomID != candidate.ClassroomID || !ev.Date.Equal(candidate.Date) {
			continue
		}
		if !span.Overlaps(ev.Span()) {
			continue
		}
		conflicts = append(conflicts, Conflict{Kind: KindEvent, WithID: ev.ID, Label: ev.Title, Shift: firstSharedShift(span, ev.Span())})
	}

	occ := ComputeOccupancy(candidate.Date, Snapshot{
		Classrooms:            snap.Classrooms,
		ClassGroups:           snap.ClassGroups,
		RecurringReservations: snap.RecurringReservations,
	})
	seen := make(map[string]struct{})
	for _, shift := range AllShifts() {
		if !span.Overlaps(shift.ClockRange()) {
			continue
		}
		for _, item := range occ.cells[cellKey{classroomID: candidate.ClassroomID, shift: shift}] {
			var id string
			switch item.Kind {
			case KindRecurring:
				id = item.Recurring.ID
			case KindClass:
				id = item.Class.ID
			default:
				continue
			}
			key := string(item.Kind) + ":" + id
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			conflicts = append(conflicts, Conflict{Kind: item.Kind, WithID: id, Label: item.Label, Shift: shift})
		}
	}
	return conflicts
}

// firstSharedShift names the earliest shift both ranges fall in, or ShiftNone when
// they only share the small hours.
func firstSharedShift(a, b ClockRange) Shift {
	for _, shift := range AllShifts() {
		band := shift.ClockRange()
		if a.Overlaps(band) && b.Overlaps(band) {
			return shift
		}
	}
	return ShiftNone
}

// RecurringConflicts lists recurring reservations and in-progress class groups that
// book the same room in the same shift on a shared weekday within overlapping dates.
func RecurringConflicts(candidate RecurringReservation, snap Snapshot) []Conflict {
	groups := snap.ClassGroupIndex()
	group, ok := groups[candidate.ClassGroupID]
	if !ok {
		return nil
	}
	span := candidate.Period()
	if !span.Valid() {
		return nil
	}

	conflicts := make([]Conflict, 0)
	for _, other := range snap.RecurringReservations {
		if other.ID == candidate.ID || other.ClassroomID != candidate.ClassroomID {
			continue
		}
		otherGroup, ok := groups[other.ClassGroupID]
		if !ok || otherGroup.Shift != group.Shift {
			continue
		}
		if !span.Overlaps(other.Period()) || !group.ClassDays.Intersects(otherGroup.ClassDays) {
			continue
		}
		label := other.Purpose
		if label == "" {
			label = otherGroup.Name
		}
		conflicts = append(conflicts, Conflict{Kind: KindRecurring, WithID: other.ID, Label: label, Shift: group.Shift})
	}

	for _, g := range snap.ClassGroups {
		if g.ID == candidate.ClassGroupID || g.Status != GroupInProgress || g.ClassroomID != candidate.ClassroomID {
			continue
		}
		if g.Shift != group.Shift {
			continue
		}
		if !span.Overlaps(g.Period()) || !group.ClassDays.Intersects(g.ClassDays) {
			continue
		}
		conflicts = append(conflicts, Conflict{Kind: KindClass, WithID: g.ID, Label: g.Name, Shift: g.Shift})
	}
	return conflicts
}
