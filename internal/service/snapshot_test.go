package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
)

func TestSnapshotLoaderParsesRowsOnce(t *testing.T) {
	c := newCampus()
	c.events = newFakeEventRepo(models.EventReservation{
		ID: "ev-1", ClassroomID: "lab-1", Title: "Palestra", Date: "2025-03-03T00:00:00Z", StartTime: "02:00", EndTime: "04:30",
	})
	metrics := NewMetricsService()

	snap, err := c.loader(metrics).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.EventReservations, 1)
	ev := snap.EventReservations[0]
	assert.True(t, ev.Date.Equal(scheduling.MustParseDate("2025-03-03")))
	assert.Equal(t, scheduling.ClockRange{Start: 120, End: 270}, ev.Span())

	require.Len(t, snap.ClassGroups, 2)
	group := snap.ClassGroups[0]
	assert.Equal(t, []scheduling.Weekday{scheduling.Monday, scheduling.Wednesday}, group.ClassDays.Sorted())
	assert.Equal(t, "2025-06-30", group.EndDate.String())
}

func TestSnapshotLoaderSkipsMalformedRows(t *testing.T) {
	c := newCampus()
	c.groups = newFakeClassGroupRepo(models.ClassGroup{
		ID: "bad-group", Name: "Turma X", Shift: "Tarde", Status: "Em Andamento",
		StartDate: "2025-99-01", EndDate: "2025-06-30", ClassDays: []string{"Segunda"},
	})
	c.recurring = newFakeRecurringRepo(models.RecurringReservation{
		ID: "bad-recurring", ClassGroupID: "bad-group", ClassroomID: "lab-1", StartDate: "2025-03-01", EndDate: "31/12/2025",
	})
	c.events = newFakeEventRepo(
		models.EventReservation{ID: "bad-date", ClassroomID: "lab-1", Title: "A", Date: "amanhã", StartTime: "08:00", EndTime: "09:00"},
		models.EventReservation{ID: "bad-time", ClassroomID: "lab-1", Title: "B", Date: "2025-03-03", StartTime: "8h", EndTime: "09:00"},
		models.EventReservation{ID: "ok", ClassroomID: "lab-1", Title: "C", Date: "2025-03-03", StartTime: "08:00", EndTime: "09:00"},
	)
	core, logs := observer.New(zapcore.WarnLevel)
	metrics := NewMetricsService()
	loader := NewSnapshotLoader(c.rooms, c.groups, c.recurring, c.events, metrics, zap.New(core))

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Classrooms, 2)
	assert.Empty(t, snap.ClassGroups)
	assert.Empty(t, snap.RecurringReservations)
	require.Len(t, snap.EventReservations, 1)
	assert.Equal(t, "ok", snap.EventReservations[0].ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.occupancySkipped.WithLabelValues("class")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.occupancySkipped.WithLabelValues("recurring")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.occupancySkipped.WithLabelValues("event")))

	entries := logs.FilterMessage("skipping malformed row").All()
	require.Len(t, entries, 4)
	assert.Equal(t, "bad-group", entries[0].ContextMap()["id"])
}
