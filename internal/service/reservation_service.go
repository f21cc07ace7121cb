package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

type recurringReservationRepository interface {
	List(ctx context.Context, filter models.ReservationFilter) ([]models.RecurringReservation, int, error)
	FindByID(ctx context.Context, id string) (*models.RecurringReservation, error)
	Create(ctx context.Context, item *models.RecurringReservation) error
	Update(ctx context.Context, item *models.RecurringReservation) error
	Delete(ctx context.Context, id string) error
}

type eventReservationRepository interface {
	List(ctx context.Context, filter models.ReservationFilter) ([]models.EventReservation, int, error)
	FindByID(ctx context.Context, id string) (*models.EventReservation, error)
	Create(ctx context.Context, item *models.EventReservation) error
	Update(ctx context.Context, item *models.EventReservation) error
	Delete(ctx context.Context, id string) error
}

type classroomFinder interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type classGroupFinder interface {
	FindByID(ctx context.Context, id string) (*models.ClassGroup, error)
}

type occupancyInvalidator interface {
	Invalidate(ctx context.Context)
}

// RecurringReservationRequest is the payload for creating or updating a recurring reservation.
type RecurringReservationRequest struct {
	ClassGroupID string `json:"class_group_id" validate:"required"`
	ClassroomID  string `json:"classroom_id" validate:"required"`
	StartDate    string `json:"start_date" validate:"required,isodate"`
	EndDate      string `json:"end_date" validate:"required,isodate"`
	Purpose      string `json:"purpose" validate:"max=255"`
}

// EventReservationRequest is the payload for creating or updating an event reservation.
type EventReservationRequest struct {
	ClassroomID string  `json:"classroom_id" validate:"required"`
	Title       string  `json:"title" validate:"required,max=255"`
	Date        string  `json:"date" validate:"required,isodate"`
	StartTime   string  `json:"start_time" validate:"required,hhmm"`
	EndTime     string  `json:"end_time" validate:"required,hhmm"`
	Responsible string  `json:"responsible" validate:"required,max=255"`
	Details     *string `json:"details"`
}

// PreviewRecurringRequest asks when a run of n classes starting at StartDate ends.
type PreviewRecurringRequest struct {
	ClassGroupID string `json:"class_group_id" validate:"required"`
	StartDate    string `json:"start_date" validate:"required,isodate"`
	Count        int    `json:"count" validate:"required,min=1,max=1000"`
}

// ReservationService manages recurring and event reservations and guards
// them against double booking.
type ReservationService struct {
	recurring  recurringReservationRepository
	events     eventReservationRepository
	classrooms classroomFinder
	groups     classGroupFinder
	loader     snapshotLoader
	occupancy  occupancyInvalidator
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewReservationService constructs a ReservationService.
func NewReservationService(recurring recurringReservationRepository, events eventReservationRepository, classrooms classroomFinder, groups classGroupFinder, loader snapshotLoader, occupancy occupancyInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ReservationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		recurring:  recurring,
		events:     events,
		classrooms: classrooms,
		groups:     groups,
		loader:     loader,
		occupancy:  occupancy,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// ListRecurring returns recurring reservations with pagination metadata.
func (s *ReservationService) ListRecurring(ctx context.Context, filter models.ReservationFilter) ([]models.RecurringReservation, *models.Pagination, error) {
	items, total, err := s.recurring.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recurring reservations")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetRecurring returns a recurring reservation.
func (s *ReservationService) GetRecurring(ctx context.Context, id string) (*models.RecurringReservation, error) {
	item, err := s.recurring.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recurring reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurring reservation")
	}
	return item, nil
}

// CreateRecurring books a classroom on a class group's weekdays.
func (s *ReservationService) CreateRecurring(ctx context.Context, req RecurringReservationRequest) (*models.RecurringReservation, error) {
	item := &models.RecurringReservation{}
	if err := s.checkRecurring(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.recurring.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create recurring reservation")
	}
	s.occupancy.Invalidate(ctx)
	return item, nil
}

// UpdateRecurring modifies a recurring reservation.
func (s *ReservationService) UpdateRecurring(ctx context.Context, id string, req RecurringReservationRequest) (*models.RecurringReservation, error) {
	item, err := s.GetRecurring(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRecurring(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.recurring.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update recurring reservation")
	}
	s.occupancy.Invalidate(ctx)
	return item, nil
}

// DeleteRecurring removes a recurring reservation.
func (s *ReservationService) DeleteRecurring(ctx context.Context, id string) error {
	if _, err := s.GetRecurring(ctx, id); err != nil {
		return err
	}
	if err := s.recurring.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete recurring reservation")
	}
	s.occupancy.Invalidate(ctx)
	return nil
}

// PreviewRecurring reports the first and last class dates of a run of req.Count
// classes of the group starting at req.StartDate.
func (s *ReservationService) PreviewRecurring(ctx context.Context, req PreviewRecurringRequest) (*scheduling.OccurrencePreview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}
	group, err := s.findGroup(ctx, req.ClassGroupID)
	if err != nil {
		return nil, err
	}
	start, err := scheduling.ParseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}
	preview, err := scheduling.PreviewOccurrences(start, group.ClassDays, req.Count)
	if err != nil {
		if errors.Is(err, scheduling.ErrNoMatchingWeekday) || errors.Is(err, scheduling.ErrInvalidOccurrenceCount) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class group has no usable class days")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to preview occurrences")
	}
	return &preview, nil
}

// ListEvents returns event reservations with pagination metadata.
func (s *ReservationService) ListEvents(ctx context.Context, filter models.ReservationFilter) ([]models.EventReservation, *models.Pagination, error) {
	items, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list event reservations")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetEvent returns an event reservation.
func (s *ReservationService) GetEvent(ctx context.Context, id string) (*models.EventReservation, error) {
	item, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event reservation")
	}
	return item, nil
}

// CreateEvent books a classroom for a single date and clock range.
func (s *ReservationService) CreateEvent(ctx context.Context, req EventReservationRequest) (*models.EventReservation, error) {
	item := &models.EventReservation{}
	if err := s.checkEvent(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event reservation")
	}
	s.occupancy.Invalidate(ctx)
	return item, nil
}

// UpdateEvent modifies an event reservation.
func (s *ReservationService) UpdateEvent(ctx context.Context, id string, req EventReservationRequest) (*models.EventReservation, error) {
	item, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEvent(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event reservation")
	}
	s.occupancy.Invalidate(ctx)
	return item, nil
}

// DeleteEvent removes an event reservation.
func (s *ReservationService) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event reservation")
	}
	s.occupancy.Invalidate(ctx)
	return nil
}

// checkRecurring validates req and applies it to item when no booking collides.
func (s *ReservationService) checkRecurring(ctx context.Context, item *models.RecurringReservation, req RecurringReservationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recurring reservation payload")
	}
	span, err := scheduling.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil || !span.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	if _, err := s.findGroup(ctx, req.ClassGroupID); err != nil {
		return err
	}
	if err := s.ensureBookable(ctx, req.ClassroomID); err != nil {
		return err
	}

	candidate := scheduling.RecurringReservation{
		ID:           item.ID,
		ClassGroupID: req.ClassGroupID,
		ClassroomID:  req.ClassroomID,
		StartDate:    span.Start,
		EndDate:      span.End,
		Purpose:      req.Purpose,
	}
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.conflictError(scheduling.RecurringConflicts(candidate, snap)); err != nil {
		return err
	}

	item.ClassGroupID = req.ClassGroupID
	item.ClassroomID = req.ClassroomID
	item.StartDate = span.Start.String()
	item.EndDate = span.End.String()
	item.Purpose = strings.TrimSpace(req.Purpose)
	return nil
}

// checkEvent validates req and applies it to item when no booking collides.
func (s *ReservationService) checkEvent(ctx context.Context, item *models.EventReservation, req EventReservationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event reservation payload")
	}
	span, err := scheduling.ParseClockRange(req.StartTime, req.EndTime)
	if err != nil || !span.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	day, err := scheduling.ParseDate(req.Date)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be an ISO date")
	}
	if err := s.ensureBookable(ctx, req.ClassroomID); err != nil {
		return err
	}

	date := day.String()
	candidate := scheduling.EventReservation{
		ID:          item.ID,
		ClassroomID: req.ClassroomID,
		Title:       req.Title,
		Date:        day,
		StartTime:   span.Start,
		EndTime:     span.End,
	}
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.conflictError(scheduling.EventConflicts(candidate, snap)); err != nil {
		return err
	}

	item.ClassroomID = req.ClassroomID
	item.Title = strings.TrimSpace(req.Title)
	item.Date = date
	item.StartTime = req.StartTime
	item.EndTime = req.EndTime
	item.Responsible = strings.TrimSpace(req.Responsible)
	item.Details = req.Details
	return nil
}

func (s *ReservationService) ensureBookable(ctx context.Context, classroomID string) error {
	room, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if room.UnderMaintenance {
		msg := fmt.Sprintf("classroom %s is under maintenance", room.Name)
		if reason := deref(room.MaintenanceReason); reason != "" {
			msg += ": " + reason
		}
		return appErrors.Clone(appErrors.ErrUnderMaintenance, msg)
	}
	return nil
}

func (s *ReservationService) findGroup(ctx context.Context, id string) (*models.ClassGroup, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class group")
	}
	return group, nil
}

func (s *ReservationService) conflictError(conflicts []scheduling.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	labels := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		s.metrics.IncConflict(string(c.Kind))
		labels = append(labels, fmt.Sprintf("%s (%s)", c.Label, c.Shift))
	}
	err := appErrors.Clone(appErrors.ErrScheduleConflict, "classroom already booked: "+strings.Join(labels, ", "))
	return appErrors.WithDetails(err, conflicts)
}
