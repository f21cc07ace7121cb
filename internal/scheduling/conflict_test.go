package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventConflicts(t *testing.T) {
	snap := sampleSnapshot()
	snap.EventReservations = []EventReservation{
		{ID: "e1", ClassroomID: "c2", Title: "Banca", Date: MustParseDate("2024-03-04"), StartTime: hm("14:00"), EndTime: hm("16:00")},
	}

	t.Run("overlapping event in same room", func(t *testing.T) {
		got := EventConflicts(EventReservation{ID: "new", ClassroomID: "c2", Date: MustParseDate("2024-03-04"), StartTime: hm("15:00"), EndTime: hm("17:00")}, snap)
		require.Len(t, got, 1)
		assert.Equal(t, KindEvent, got[0].Kind)
		assert.Equal(t, "e1", got[0].WithID)
	})

	t.Run("touching event is fine", func(t *testing.T) {
		got := EventConflicts(EventReservation{ID: "new", ClassroomID: "c2", Date: MustParseDate("2024-03-04"), StartTime: hm("16:00"), EndTime: hm("17:00")}, snap)
		assert.Empty(t, got)
	})

	t.Run("class holds the whole shift", func(t *testing.T) {
		got := EventConflicts(EventReservation{ID: "new", ClassroomID: "c1", Date: MustParseDate("2024-03-04"), StartTime: hm("11:00"), EndTime: hm("13:00")}, snap)
		require.Len(t, got, 1)
		assert.Equal(t, KindClass, got[0].Kind)
		assert.Equal(t, "g1", got[0].WithID)
	})

	t.Run("updating an event ignores itself", func(t *testing.T) {
		got := EventConflicts(EventReservation{ID: "e1", ClassroomID: "c2", Date: MustParseDate("2024-03-04"), StartTime: hm("13:00"), EndTime: hm("15:00")}, snap)
		assert.Empty(t, got)
	})

	t.Run("other room or day", func(t *testing.T) {
		assert.Empty(t, EventConflicts(EventReservation{ID: "new", ClassroomID: "c1", Date: MustParseDate("2024-03-04"), StartTime: hm("14:00"), EndTime: hm("16:00")}, snap))
		assert.Empty(t, EventConflicts(EventReservation{ID: "new", ClassroomID: "c2", Date: MustParseDate("2024-03-05"), StartTime: hm("14:00"), EndTime: hm("16:00")}, snap))
	})

	t.Run("events overlapping before the morning shift", func(t *testing.T) {
		early := snap
		early.EventReservations = append([]EventReservation{
			{ID: "vigil", ClassroomID: "c1", Title: "Vigília", Date: MustParseDate("2024-03-04"), StartTime: hm("02:00"), EndTime: hm("04:00")},
		}, snap.EventReservations...)
		got := EventConflicts(EventReservation{ID: "new", ClassroomID: "c1", Date: MustParseDate("2024-03-04"), StartTime: hm("03:00"), EndTime: hm("05:00")}, early)
		require.Len(t, got, 1)
		assert.Equal(t, KindEvent, got[0].Kind)
		assert.Equal(t, "vigil", got[0].WithID)
		assert.Equal(t, ShiftNone, got[0].Shift)

		assert.Empty(t, EventConflicts(EventReservation{ID: "new", ClassroomID: "c1", Date: MustParseDate("2024-03-04"), StartTime: hm("04:00"), EndTime: hm("05:30")}, early))
	})

	t.Run("empty candidate range", func(t *testing.T) {
		assert.Empty(t, EventConflicts(EventReservation{ID: "new", ClassroomID: "c2", Date: MustParseDate("2024-03-04"), StartTime: hm("16:00"), EndTime: hm("15:00")}, snap))
	})
}

func TestEventConflictsSpanningShiftsReportedOnce(t *testing.T) {
	snap := sampleSnapshot()
	snap.EventReservations = []EventReservation{
		{ID: "e1", ClassroomID: "c2", Title: "Feira", Date: MustParseDate("2024-03-04"), StartTime: hm("10:00"), EndTime: hm("20:00")},
	}
	got := EventConflicts(EventReservation{ID: "new", ClassroomID: "c2", Date: MustParseDate("2024-03-04"), StartTime: hm("11:00"), EndTime: hm("19:00")}, snap)
	require.Len(t, got, 1)
	assert.Equal(t, ShiftMorning, got[0].Shift)
}

func TestRecurringConflicts(t *testing.T) {
	snap := sampleSnapshot()
	snap.ClassGroups = append(snap.ClassGroups,
		ClassGroup{ID: "g2", Name: "Turma B", Shift: ShiftMorning, Status: GroupPlanned, StartDate: MustParseDate("2024-01-01"), EndDate: MustParseDate("2024-12-31"), ClassDays: NewWeekdaySet([]string{"Quarta", "Sexta"})},
		ClassGroup{ID: "g3", Name: "Turma C", Shift: ShiftEvening, Status: GroupPlanned, StartDate: MustParseDate("2024-01-01"), EndDate: MustParseDate("2024-12-31"), ClassDays: NewWeekdaySet([]string{"Quarta"})},
	)
	snap.RecurringReservations = []RecurringReservation{
		{ID: "r1", ClassGroupID: "g2", ClassroomID: "c2", StartDate: MustParseDate("2024-03-01"), EndDate: MustParseDate("2024-04-30")},
	}

	t.Run("shared weekday and shift in overlapping dates", func(t *testing.T) {
		got := RecurringConflicts(RecurringReservation{ID: "new", ClassGroupID: "g1", ClassroomID: "c2", StartDate: MustParseDate("2024-04-01"), EndDate: MustParseDate("2024-05-31")}, snap)
		require.Len(t, got, 1)
		assert.Equal(t, "r1", got[0].WithID)
	})

	t.Run("different shift", func(t *testing.T) {
		got := RecurringConflicts(RecurringReservation{ID: "new", ClassGroupID: "g3", ClassroomID: "c2", StartDate: MustParseDate("2024-03-01"), EndDate: MustParseDate("2024-05-31")}, snap)
		assert.Empty(t, got)
	})

	t.Run("dates do not overlap", func(t *testing.T) {
		got := RecurringConflicts(RecurringReservation{ID: "new", ClassGroupID: "g1", ClassroomID: "c2", StartDate: MustParseDate("2024-05-01"), EndDate: MustParseDate("2024-05-31")}, snap)
		assert.Empty(t, got)
	})

	t.Run("running class group assigned to the room", func(t *testing.T) {
		got := RecurringConflicts(RecurringReservation{ID: "new", ClassGroupID: "g2", ClassroomID: "c1", StartDate: MustParseDate("2024-03-01"), EndDate: MustParseDate("2024-03-31")}, snap)
		require.Len(t, got, 1)
		assert.Equal(t, KindClass, got[0].Kind)
		assert.Equal(t, "g1", got[0].WithID)
	})

	t.Run("unknown group", func(t *testing.T) {
		assert.Empty(t, RecurringConflicts(RecurringReservation{ID: "new", ClassGroupID: "missing", ClassroomID: "c2", StartDate: MustParseDate("2024-03-01"), EndDate: MustParseDate("2024-03-31")}, snap))
	})
}
