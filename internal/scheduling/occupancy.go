package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingClassGroup marks a recurring reservation whose class group no longer exists.
	ErrMissingClassGroup = errors.New("scheduling: referenced class group not found")
	// ErrUnknownShift marks a class group with a shift outside the three known ones.
	ErrUnknownShift = errors.New("scheduling: unknown shift")
)

// OccupancyKind tags the origin of an occupancy item.
type OccupancyKind string

const (
	KindClass     OccupancyKind = "class"
	KindRecurring OccupancyKind = "recurring"
	KindEvent     OccupancyKind = "event"
)

// OccupancyItem is one reason a cell is taken. Exactly one payload matches Kind.
type OccupancyItem struct {
	Kind      OccupancyKind         `json:"type"`
	Label     string                `json:"label"`
	Class     *ClassGroup           `json:"class,omitempty"`
	Recurring *RecurringReservation `json:"recurring,omitempty"`
	Event     *EventReservation     `json:"event,omitempty"`
}

// CellStatus is the availability of one classroom during one shift.
type CellStatus string

const (
	StatusFree        CellStatus = "Livre"
	StatusOccupied    CellStatus = "Ocupada"
	StatusMaintenance CellStatus = "Manutenção"
)

// Cell is the status of a (classroom, shift) pair on a date.
type Cell struct {
	ClassroomID       string          `json:"classroom_id"`
	Shift             Shift           `json:"shift"`
	Status            CellStatus      `json:"status"`
	Items             []OccupancyItem `json:"items"`
	MaintenanceReason string          `json:"maintenance_reason,omitempty"`
}

// GridRow holds every shift cell for one classroom.
type GridRow struct {
	Classroom Classroom `json:"classroom"`
	Cells     []Cell    `json:"cells"`
}

// Grid is the full availability table for a date.
type Grid struct {
	Date Date      `json:"date"`
	Rows []GridRow `json:"rows"`
}

// Cell looks up a cell in the grid.
func (g *Grid) Cell(classroomID string, shift Shift) (Cell, bool) {
	if g == nil {
		return Cell{}, false
	}
	for _, row := range g.Rows {
		if row.Classroom.ID != classroomID {
			continue
		}
		for _, c := range row.Cells {
			if c.Shift == shift {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// SkipFunc is told about entities left out of a computation because of bad data.
type SkipFunc func(kind OccupancyKind, id string, err error)

// Option tunes ComputeOccupancy.
type Option func(*computeOptions)

type computeOptions struct {
	onSkip SkipFunc
}

// WithSkipHandler registers a callback for skipped entities.
func WithSkipHandler(fn SkipFunc) Option {
	return func(o *computeOptions) {
		o.onSkip = fn
	}
}

type cellKey struct {
	classroomID string
	shift       Shift
}

// Occupancy is the computed occupancy of every classroom for one date.
type Occupancy struct {
	date       Date
	classrooms []Classroom
	byID       map[string]Classroom
	cells      map[cellKey][]OccupancyItem
}

// ComputeOccupancy expands class groups, recurring reservations and events into
// per-cell occupancy for date. Entities that cannot be placed are skipped.
func ComputeOccupancy(date Date, snap Snapshot, opts ...Option) *Occupancy {
	var cfg computeOptions
	for _, opt := range opts {
		opt(&cfg)
	}
	skip := func(kind OccupancyKind, id string, err error) {
		if cfg.onSkip != nil {
			cfg.onSkip(kind, id, err)
		}
	}

	occ := &Occupancy{
		date:       date,
		classrooms: append([]Classroom(nil), snap.Classrooms...),
		byID:       snap.ClassroomIndex(),
		cells:      make(map[cellKey][]OccupancyItem),
	}
	weekday := date.Weekday()

	for i := range snap.ClassGroups {
		group := snap.ClassGroups[i]
		if group.Status != GroupInProgress || group.ClassroomID == "" {
			continue
		}
		if group.Shift.ClockRange() == (ClockRange{}) {
			skip(KindClass, group.ID, fmt.Errorf("%w: %q", ErrUnknownShift, group.Shift))
			continue
		}
		if !group.Period().Contains(date) || !group.ClassDays.Has(weekday) {
			continue
		}
		occ.add(group.ClassroomID, group.Shift, OccupancyItem{Kind: KindClass, Label: group.Name, Class: &group})
	}

	groups := snap.ClassGroupIndex()
	for i := range snap.RecurringReservations {
		res := snap.RecurringReservations[i]
		group, ok := groups[res.ClassGroupID]
		if !ok {
			skip(KindRecurring, res.ID, ErrMissingClassGroup)
			continue
		}
		if group.Shift.ClockRange() == (ClockRange{}) {
			skip(KindRecurring, res.ID, fmt.Errorf("%w: %q", ErrUnknownShift, group.Shift))
			continue
		}
		if !res.Period().Contains(date) || !group.ClassDays.Has(weekday) {
			continue
		}
		label := res.Purpose
		if label == "" {
			label = group.Name
		}
		occ.add(res.ClassroomID, group.Shift, OccupancyItem{Kind: KindRecurring, Label: label, Recurring: &res})
	}

	for i := range snap.EventReservations {
		ev := snap.EventReservations[i]
		if !ev.Date.Equal(date) {
			continue
		}
		span := ev.Span()
		if !span.Valid() {
			skip(KindEvent, ev.ID, fmt.Errorf("%w: %s-%s", ErrEmptyClockRange, ev.StartTime, ev.EndTime))
			continue
		}
		for _, shift := range AllShifts() {
			if span.Overlaps(shift.ClockRange()) {
				occ.add(ev.ClassroomID, shift, OccupancyItem{Kind: KindEvent, Label: ev.Title, Event: &ev})
			}
		}
	}

	return occ
}

func (o *Occupancy) add(classroomID string, shift Shift, item OccupancyItem) {
	key := cellKey{classroomID: classroomID, shift: shift}
	o.cells[key] = append(o.cells[key], item)
}

// Date returns the date the occupancy was computed for.
func (o *Occupancy) Date() Date {
	return o.date
}

// CellStatus reports the status of a classroom during a shift. Maintenance wins
// over any scheduled occupancy.
func (o *Occupancy) CellStatus(classroomID string, shift Shift) Cell {
	cell := Cell{ClassroomID: classroomID, Shift: shift, Items: []OccupancyItem{}}
	if room, ok := o.byID[classroomID]; ok && room.UnderMaintenance {
		cell.Status = StatusMaintenance
		cell.MaintenanceReason = room.MaintenanceReason
		return cell
	}
	items := o.cells[cellKey{classroomID: classroomID, shift: shift}]
	if len(items) == 0 {
		cell.Status = StatusFree
		return cell
	}
	cell.Status = StatusOccupied
	cell.Items = append(cell.Items, items...)
	return cell
}

// Grid lays out every classroom against every shift, in input order.
func (o *Occupancy) Grid() *Grid {
	grid := &Grid{Date: o.date, Rows: make([]GridRow, 0, len(o.classrooms))}
	for _, room := range o.classrooms {
		row := GridRow{Classroom: room, Cells: make([]Cell, 0, len(AllShifts()))}
		for _, shift := range AllShifts() {
			row.Cells = append(row.Cells, o.CellStatus(room.ID, shift))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// Summary counts cells per status across the grid.
func (g *Grid) Summary() map[CellStatus]int {
	counts := map[CellStatus]int{StatusFree: 0, StatusOccupied: 0, StatusMaintenance: 0}
	if g == nil {
		return counts
	}
	for _, row := range g.Rows {
		for _, c := range row.Cells {
			counts[c.Status]++
		}
	}
	return counts
}
