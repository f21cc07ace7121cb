package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

func newReservationFixture() (*ReservationService, *campus, *countingInvalidator, *MetricsService) {
	c := newCampus()
	metrics := NewMetricsService()
	inv := &countingInvalidator{}
	svc := NewReservationService(c.recurring, c.events, c.rooms, c.groups, c.loader(metrics), inv, metrics, nil, zap.NewNop())
	return svc, c, inv, metrics
}

func TestReservationServiceCreateEvent(t *testing.T) {
	svc, c, inv, _ := newReservationFixture()

	evt, err := svc.CreateEvent(context.Background(), EventReservationRequest{
		ClassroomID: "lab-1",
		Title:       " Palestra de Segurança ",
		Date:        "2025-03-03",
		StartTime:   "14:00",
		EndTime:     "16:00",
		Responsible: "Coordenação",
	})
	require.NoError(t, err)
	assert.Equal(t, "Palestra de Segurança", evt.Title)
	assert.Len(t, c.events.items, 1)
	assert.Equal(t, 1, inv.calls)
}

func TestReservationServiceEventConflicts(t *testing.T) {
	tests := []struct {
		name  string
		req   EventReservationRequest
		code  string
		kind  string
		setup func(c *campus)
	}{
		{
			name: "overlapping event",
			req:  EventReservationRequest{ClassroomID: "lab-1", Title: "Reunião", Date: "2025-03-03", StartTime: "15:00", EndTime: "17:00", Responsible: "Direção"},
			code: appErrors.ErrScheduleConflict.Code,
			kind: "event",
			setup: func(c *campus) {
				c.events = newFakeEventRepo(models.EventReservation{ID: "evt-1", ClassroomID: "lab-1", Title: "Palestra", Date: "2025-03-03", StartTime: "14:00", EndTime: "16:00"})
			},
		},
		{
			name: "overlapping event before the morning shift",
			req:  EventReservationRequest{ClassroomID: "lab-1", Title: "Manutenção elétrica", Date: "2025-03-03", StartTime: "03:00", EndTime: "05:00", Responsible: "Infraestrutura"},
			code: appErrors.ErrScheduleConflict.Code,
			kind: "event",
			setup: func(c *campus) {
				c.events = newFakeEventRepo(models.EventReservation{ID: "evt-early", ClassroomID: "lab-1", Title: "Vigília", Date: "2025-03-03", StartTime: "02:00", EndTime: "04:00"})
			},
		},
		{
			name: "class in the shift",
			req:  EventReservationRequest{ClassroomID: "room-101", Title: "Reunião", Date: "2025-03-03", StartTime: "10:00", EndTime: "11:00", Responsible: "Direção"},
			code: appErrors.ErrScheduleConflict.Code,
			kind: "class",
		},
		{
			name: "room under maintenance",
			req:  EventReservationRequest{ClassroomID: "lab-1", Title: "Reunião", Date: "2025-03-03", StartTime: "10:00", EndTime: "11:00", Responsible: "Direção"},
			code: appErrors.ErrUnderMaintenance.Code,
			setup: func(c *campus) {
				c.rooms.rooms["lab-1"].UnderMaintenance = true
			},
		},
		{
			name: "inverted clock range",
			req:  EventReservationRequest{ClassroomID: "lab-1", Title: "Reunião", Date: "2025-03-03", StartTime: "11:00", EndTime: "10:00", Responsible: "Direção"},
			code: appErrors.ErrValidation.Code,
		},
		{
			name: "unknown classroom",
			req:  EventReservationRequest{ClassroomID: "nope", Title: "Reunião", Date: "2025-03-03", StartTime: "10:00", EndTime: "11:00", Responsible: "Direção"},
			code: appErrors.ErrNotFound.Code,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newCampus()
			if tc.setup != nil {
				tc.setup(c)
			}
			metrics := NewMetricsService()
			inv := &countingInvalidator{}
			svc := NewReservationService(c.recurring, c.events, c.rooms, c.groups, c.loader(metrics), inv, metrics, nil, nil)

			_, err := svc.CreateEvent(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
			assert.Zero(t, inv.calls)
			if tc.kind != "" {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.conflictsTotal.WithLabelValues(tc.kind)))
			}
		})
	}
}

func TestReservationServiceUpdateEventIgnoresItself(t *testing.T) {
	svc, c, _, _ := newReservationFixture()
	c.events.items["evt-1"] = &models.EventReservation{ID: "evt-1", ClassroomID: "lab-1", Title: "Palestra", Date: "2025-03-03", StartTime: "14:00", EndTime: "16:00", Responsible: "Direção"}
	c.events.order = append(c.events.order, "evt-1")

	updated, err := svc.UpdateEvent(context.Background(), "evt-1", EventReservationRequest{
		ClassroomID: "lab-1", Title: "Palestra", Date: "2025-03-03", StartTime: "15:00", EndTime: "17:00", Responsible: "Direção",
	})
	require.NoError(t, err)
	assert.Equal(t, "15:00", updated.StartTime)
}

func TestReservationServiceRecurring(t *testing.T) {
	svc, c, inv, _ := newReservationFixture()

	created, err := svc.CreateRecurring(context.Background(), RecurringReservationRequest{
		ClassGroupID: "group-b",
		ClassroomID:  "lab-1",
		StartDate:    "2025-03-01",
		EndDate:      "2025-05-31",
		Purpose:      "Aulas práticas",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.calls)
	assert.Len(t, c.recurring.items, 1)

	_, err = svc.CreateRecurring(context.Background(), RecurringReservationRequest{
		ClassGroupID: "group-b",
		ClassroomID:  "lab-1",
		StartDate:    "2025-05-01",
		EndDate:      "2025-06-30",
	})
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateRecurring(context.Background(), RecurringReservationRequest{
		ClassGroupID: "group-b",
		ClassroomID:  "lab-1",
		StartDate:    "2025-06-01",
		EndDate:      "2025-06-30",
	})
	assert.NoError(t, err, "disjoint date ranges do not collide")

	_, err = svc.UpdateRecurring(context.Background(), created.ID, RecurringReservationRequest{
		ClassGroupID: "group-b",
		ClassroomID:  "lab-1",
		StartDate:    "2025-03-01",
		EndDate:      "2025-05-15",
	})
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteRecurring(context.Background(), created.ID))
	err = svc.DeleteRecurring(context.Background(), created.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReservationServiceRecurringCollidesWithClass(t *testing.T) {
	svc, c, _, _ := newReservationFixture()
	c.groups.groups["group-c"] = &models.ClassGroup{
		ID: "group-c", Name: "Turma C", Year: 2025, Shift: "Manhã", Status: "Planejada",
		StartDate: "2025-02-03", EndDate: "2025-06-30", ClassDays: []string{"Quarta", "Sexta"},
	}
	c.groups.order = append(c.groups.order, "group-c")

	_, err := svc.CreateRecurring(context.Background(), RecurringReservationRequest{
		ClassGroupID: "group-c",
		ClassroomID:  "room-101",
		StartDate:    "2025-03-01",
		EndDate:      "2025-03-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "Turma A")
}

func TestReservationServiceRecurringValidation(t *testing.T) {
	svc, _, _, _ := newReservationFixture()

	_, err := svc.CreateRecurring(context.Background(), RecurringReservationRequest{
		ClassGroupID: "group-b", ClassroomID: "lab-1", StartDate: "2025-05-01", EndDate: "2025-03-01",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateRecurring(context.Background(), RecurringReservationRequest{
		ClassGroupID: "missing", ClassroomID: "lab-1", StartDate: "2025-03-01", EndDate: "2025-05-01",
	})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReservationServicePreviewRecurring(t *testing.T) {
	svc, c, _, _ := newReservationFixture()

	preview, err := svc.PreviewRecurring(context.Background(), PreviewRecurringRequest{
		ClassGroupID: "group-a", StartDate: "2025-03-01", Count: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", preview.FirstDate.String())
	assert.Equal(t, "2025-03-12", preview.EndDate.String())
	assert.Equal(t, 4, preview.Count)

	c.groups.groups["group-a"].ClassDays = nil
	_, err = svc.PreviewRecurring(context.Background(), PreviewRecurringRequest{
		ClassGroupID: "group-a", StartDate: "2025-03-01", Count: 4,
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.PreviewRecurring(context.Background(), PreviewRecurringRequest{
		ClassGroupID: "group-a", StartDate: "2025-03-01", Count: 0,
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReservationConflictCarriesDetails(t *testing.T) {
	svc, _, _, _ := newReservationFixture()

	_, err := svc.CreateEvent(context.Background(), EventReservationRequest{
		ClassroomID: "room-101",
		Title:       "Palestra",
		Date:        "2025-03-03",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Responsible: "Coordenação",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
	conflicts, ok := appErr.Details.([]scheduling.Conflict)
	require.True(t, ok)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, "group-a", conflicts[0].WithID)
}
