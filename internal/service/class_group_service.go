package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

type classGroupRepository interface {
	List(ctx context.Context, filter models.ClassGroupFilter) ([]models.ClassGroupDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassGroup, error)
	Create(ctx context.Context, group *models.ClassGroup) error
	Update(ctx context.Context, group *models.ClassGroup) error
	Delete(ctx context.Context, id string) error
	CountReservations(ctx context.Context, id string) (int, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// ClassGroupRequest captures create and update payloads.
type ClassGroupRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	CourseID    *string  `json:"course_id"`
	Year        int      `json:"year" validate:"required,min=2000,max=2100"`
	Shift       string   `json:"shift" validate:"required,shift"`
	Status      string   `json:"status" validate:"required,group_status"`
	StartDate   string   `json:"start_date" validate:"required,isodate"`
	EndDate     string   `json:"end_date" validate:"required,isodate"`
	ClassroomID *string  `json:"classroom_id"`
	ClassDays   []string `json:"class_days" validate:"required,min=1,dive,weekday"`
}

// ClassGroupService coordinates class group operations.
type ClassGroupService struct {
	repo       classGroupRepository
	courses    courseFinder
	classrooms classroomFinder
	occupancy  occupancyInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewClassGroupService constructs ClassGroupService.
func NewClassGroupService(repo classGroupRepository, courses courseFinder, classrooms classroomFinder, occupancy occupancyInvalidator, validate *validator.Validate, logger *zap.Logger) *ClassGroupService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassGroupService{repo: repo, courses: courses, classrooms: classrooms, occupancy: occupancy, validator: validate, logger: logger}
}

// List returns class groups joined with course and classroom names.
func (s *ClassGroupService) List(ctx context.Context, filter models.ClassGroupFilter) ([]models.ClassGroupDetail, *models.Pagination, error) {
	if filter.Shift != "" {
		shift, ok := scheduling.ParseShift(filter.Shift)
		if !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid shift filter")
		}
		filter.Shift = string(shift)
	}
	groups, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class groups")
	}
	return groups, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a class group.
func (s *ClassGroupService) Get(ctx context.Context, id string) (*models.ClassGroup, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class group")
	}
	return group, nil
}

// Create adds a class group.
func (s *ClassGroupService) Create(ctx context.Context, req ClassGroupRequest) (*models.ClassGroup, error) {
	group := &models.ClassGroup{}
	if err := s.apply(ctx, group, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class group")
	}
	s.occupancy.Invalidate(ctx)
	return group, nil
}

// Update modifies a class group.
func (s *ClassGroupService) Update(ctx context.Context, id string, req ClassGroupRequest) (*models.ClassGroup, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, group, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class group")
	}
	s.occupancy.Invalidate(ctx)
	return group, nil
}

// Delete removes a class group without reservations.
func (s *ClassGroupService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountReservations(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class group reservations")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "class group has recurring reservations")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class group")
	}
	s.occupancy.Invalidate(ctx)
	return nil
}

// apply validates req and copies it onto group with canonical enum names.
func (s *ClassGroupService) apply(ctx context.Context, group *models.ClassGroup, req ClassGroupRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class group payload")
	}
	span, err := scheduling.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil || !span.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	courseID := trimmedOrNil(req.CourseID)
	if courseID != nil {
		if _, err := s.courses.FindByID(ctx, *courseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "course not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
	}
	classroomID := trimmedOrNil(req.ClassroomID)
	if classroomID != nil {
		if _, err := s.classrooms.FindByID(ctx, *classroomID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "classroom not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
		}
	}

	shift, _ := scheduling.ParseShift(req.Shift)
	days := scheduling.NewWeekdaySet(req.ClassDays).Sorted()
	classDays := make(pq.StringArray, 0, len(days))
	for _, d := range days {
		classDays = append(classDays, string(d))
	}

	group.Name = strings.TrimSpace(req.Name)
	group.CourseID = courseID
	group.Year = req.Year
	group.Shift = string(shift)
	group.Status = req.Status
	group.StartDate = span.Start.String()
	group.EndDate = span.End.String()
	group.ClassroomID = classroomID
	group.ClassDays = classDays
	return nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
