package scheduling

// GroupStatus is the lifecycle state of a class group.
type GroupStatus string

const (
	GroupPlanned    GroupStatus = "Planejada"
	GroupInProgress GroupStatus = "Em Andamento"
	GroupCompleted  GroupStatus = "Concluída"
	GroupCancelled  GroupStatus = "Cancelada"
)

// Classroom is the read-only view of a room used by the scheduling core.
type Classroom struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Capacity          *int   `json:"capacity,omitempty"`
	UnderMaintenance  bool   `json:"under_maintenance"`
	MaintenanceReason string `json:"maintenance_reason,omitempty"`
}

// ClassGroup is a cohort with a weekly schedule inside a date range. Dates and
// class days are parsed when rows enter the core.
type ClassGroup struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Year        int         `json:"year"`
	Shift       Shift       `json:"shift"`
	Status      GroupStatus `json:"status"`
	StartDate   Date        `json:"start_date"`
	EndDate     Date        `json:"end_date"`
	ClassroomID string      `json:"classroom_id,omitempty"`
	ClassDays   WeekdaySet  `json:"class_days"`
}

// Period is the inclusive span the group runs in.
func (g ClassGroup) Period() DateRange {
	return DateRange{Start: g.StartDate, End: g.EndDate}
}

// RecurringReservation books a room on the class days of a class group.
type RecurringReservation struct {
	ID           string `json:"id"`
	ClassGroupID string `json:"class_group_id"`
	ClassroomID  string `json:"classroom_id"`
	StartDate    Date   `json:"start_date"`
	EndDate      Date   `json:"end_date"`
	Purpose      string `json:"purpose"`
}

// Period is the inclusive span the reservation holds.
func (r RecurringReservation) Period() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// EventReservation books a room once, for a literal clock range.
type EventReservation struct {
	ID          string    `json:"id"`
	ClassroomID string    `json:"classroom_id"`
	Title       string    `json:"title"`
	Date        Date      `json:"date"`
	StartTime   ClockTime `json:"start_time"`
	EndTime     ClockTime `json:"end_time"`
	Responsible string    `json:"responsible"`
	Details     string    `json:"details,omitempty"`
}

// Span is the half-open clock range the event holds.
func (e EventReservation) Span() ClockRange {
	return ClockRange{Start: e.StartTime, End: e.EndTime}
}

// Snapshot is the set of already-fetched collections a computation runs over.
type Snapshot struct {
	Classrooms            []Classroom
	ClassGroups           []ClassGroup
	RecurringReservations []RecurringReservation
	EventReservations     []EventReservation
}

// ClassGroupIndex maps class group ids to their records.
func (s Snapshot) ClassGroupIndex() map[string]ClassGroup {
	index := make(map[string]ClassGroup, len(s.ClassGroups))
	for _, g := range s.ClassGroups {
		index[g.ID] = g
	}
	return index
}

// ClassroomIndex maps classroom ids to their records.
func (s Snapshot) ClassroomIndex() map[string]Classroom {
	index := make(map[string]Classroom, len(s.Classrooms))
	for _, c := range s.Classrooms {
		index[c.ID] = c
	}
	return index
}
