package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

type classroomLister interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
}

type classGroupLister interface {
	ListAll(ctx context.Context) ([]models.ClassGroup, error)
}

type recurringLister interface {
	ListAll(ctx context.Context) ([]models.RecurringReservation, error)
}

type eventLister interface {
	ListAll(ctx context.Context) ([]models.EventReservation, error)
}

type snapshotLoader interface {
	Load(ctx context.Context) (scheduling.Snapshot, error)
}

// SnapshotLoader fetches the four collections the scheduling core runs over
// and converts persisted rows into core view types. Rows whose dates or times
// do not parse are left out of the snapshot.
type SnapshotLoader struct {
	classrooms classroomLister
	groups     classGroupLister
	recurring  recurringLister
	events     eventLister
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewSnapshotLoader constructs a SnapshotLoader.
func NewSnapshotLoader(classrooms classroomLister, groups classGroupLister, recurring recurringLister, events eventLister, metrics *MetricsService, logger *zap.Logger) *SnapshotLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{classrooms: classrooms, groups: groups, recurring: recurring, events: events, metrics: metrics, logger: logger}
}

// Load reads every collection. Any repository failure aborts the load.
func (l *SnapshotLoader) Load(ctx context.Context) (scheduling.Snapshot, error) {
	start := time.Now()
	defer func() { l.metrics.ObserveDBQuery("occupancy_snapshot", time.Since(start)) }()

	rooms, err := l.classrooms.ListAll(ctx)
	if err != nil {
		return scheduling.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	groups, err := l.groups.ListAll(ctx)
	if err != nil {
		return scheduling.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class groups")
	}
	recurring, err := l.recurring.ListAll(ctx)
	if err != nil {
		return scheduling.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurring reservations")
	}
	events, err := l.events.ListAll(ctx)
	if err != nil {
		return scheduling.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event reservations")
	}

	snap := scheduling.Snapshot{
		Classrooms:            make([]scheduling.Classroom, 0, len(rooms)),
		ClassGroups:           make([]scheduling.ClassGroup, 0, len(groups)),
		RecurringReservations: make([]scheduling.RecurringReservation, 0, len(recurring)),
		EventReservations:     make([]scheduling.EventReservation, 0, len(events)),
	}
	for _, r := range rooms {
		snap.Classrooms = append(snap.Classrooms, toCoreClassroom(r))
	}
	snap.ClassGroups = l.classGroups(groups)
	for _, r := range recurring {
		core, err := toCoreRecurring(r)
		if err != nil {
			l.skip(scheduling.KindRecurring, r.ID, err)
			continue
		}
		snap.RecurringReservations = append(snap.RecurringReservations, core)
	}
	for _, e := range events {
		core, err := toCoreEvent(e)
		if err != nil {
			l.skip(scheduling.KindEvent, e.ID, err)
			continue
		}
		snap.EventReservations = append(snap.EventReservations, core)
	}
	return snap, nil
}

func (l *SnapshotLoader) classGroups(rows []models.ClassGroup) []scheduling.ClassGroup {
	out := make([]scheduling.ClassGroup, 0, len(rows))
	for _, g := range rows {
		core, err := toCoreClassGroup(g)
		if err != nil {
			l.skip(scheduling.KindClass, g.ID, err)
			continue
		}
		out = append(out, core)
	}
	return out
}

func (l *SnapshotLoader) skip(kind scheduling.OccupancyKind, id string, err error) {
	l.metrics.IncSkipped(string(kind))
	l.logger.Warn("skipping malformed row",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Error(err))
}

func toCoreClassroom(r models.Classroom) scheduling.Classroom {
	return scheduling.Classroom{
		ID:                r.ID,
		Name:              r.Name,
		Capacity:          r.Capacity,
		UnderMaintenance:  r.UnderMaintenance,
		MaintenanceReason: deref(r.MaintenanceReason),
	}
}

func toCoreClassGroup(g models.ClassGroup) (scheduling.ClassGroup, error) {
	period, err := scheduling.ParseDateRange(g.StartDate, g.EndDate)
	if err != nil {
		return scheduling.ClassGroup{}, err
	}
	return scheduling.ClassGroup{
		ID:          g.ID,
		Name:        g.Name,
		Year:        g.Year,
		Shift:       scheduling.Shift(g.Shift),
		Status:      scheduling.GroupStatus(g.Status),
		StartDate:   period.Start,
		EndDate:     period.End,
		ClassroomID: deref(g.ClassroomID),
		ClassDays:   scheduling.NewWeekdaySet(g.ClassDays),
	}, nil
}

func toCoreRecurring(r models.RecurringReservation) (scheduling.RecurringReservation, error) {
	period, err := scheduling.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return scheduling.RecurringReservation{}, err
	}
	return scheduling.RecurringReservation{
		ID:           r.ID,
		ClassGroupID: r.ClassGroupID,
		ClassroomID:  r.ClassroomID,
		StartDate:    period.Start,
		EndDate:      period.End,
		Purpose:      r.Purpose,
	}, nil
}

func toCoreEvent(e models.EventReservation) (scheduling.EventReservation, error) {
	date, err := scheduling.ParseDate(e.Date)
	if err != nil {
		return scheduling.EventReservation{}, err
	}
	span, err := scheduling.ParseClockRange(e.StartTime, e.EndTime)
	if err != nil {
		return scheduling.EventReservation{}, err
	}
	return scheduling.EventReservation{
		ID:          e.ID,
		ClassroomID: e.ClassroomID,
		Title:       e.Title,
		Date:        date,
		StartTime:   span.Start,
		EndTime:     span.End,
		Responsible: e.Responsible,
		Details:     deref(e.Details),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
