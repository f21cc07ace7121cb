package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ensalamento-api/internal/models"
)

// Dates are rendered as text so the scheduling core receives the stored
// calendar day untouched by driver time zone handling.
const classGroupColumns = `g.id, g.name, g.course_id, g.year, g.shift, g.status,
to_char(g.start_date, 'YYYY-MM-DD') AS start_date, to_char(g.end_date, 'YYYY-MM-DD') AS end_date,
g.classroom_id, g.class_days, g.created_at, g.updated_at`

// ClassGroupRepository manages persistence for class groups.
type ClassGroupRepository struct {
	db *sqlx.DB
}

// NewClassGroupRepository constructs a class group repository.
func NewClassGroupRepository(db *sqlx.DB) *ClassGroupRepository {
	return &ClassGroupRepository{db: db}
}

// List returns class groups with joined course and classroom names.
func (r *ClassGroupRepository) List(ctx context.Context, filter models.ClassGroupFilter) ([]models.ClassGroupDetail, int, error) {
	base := `FROM class_groups g
LEFT JOIN courses c ON c.id = g.course_id
LEFT JOIN classrooms r ON r.id = g.classroom_id
WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("g.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("g.classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("g.shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("g.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(g.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy, order := sortClause(filter.SortBy, filter.SortOrder, "name", map[string]bool{
		"name":       true,
		"year":       true,
		"start_date": true,
		"created_at": true,
	})
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s, c.name AS course_name, r.name AS classroom_name %s ORDER BY g.%s %s LIMIT %d OFFSET %d",
		classGroupColumns, base, sortBy, order, limit, offset)
	var groups []models.ClassGroupDetail
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class groups: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count class groups: %w", err)
	}
	return groups, total, nil
}

// ListAll returns every class group for occupancy computation.
func (r *ClassGroupRepository) ListAll(ctx context.Context) ([]models.ClassGroup, error) {
	var groups []models.ClassGroup
	if err := r.db.SelectContext(ctx, &groups, "SELECT "+classGroupColumns+" FROM class_groups g ORDER BY g.name ASC"); err != nil {
		return nil, fmt.Errorf("list all class groups: %w", err)
	}
	return groups, nil
}

// FindByID returns a class group by ID.
func (r *ClassGroupRepository) FindByID(ctx context.Context, id string) (*models.ClassGroup, error) {
	var group models.ClassGroup
	if err := r.db.GetContext(ctx, &group, "SELECT "+classGroupColumns+" FROM class_groups g WHERE g.id = $1", id); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create persists a class group.
func (r *ClassGroupRepository) Create(ctx context.Context, group *models.ClassGroup) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	const query = `INSERT INTO class_groups (id, name, course_id, year, shift, status, start_date, end_date, classroom_id, class_days, created_at, updated_at)
VALUES (:id, :name, :course_id, :year, :shift, :status, :start_date, :end_date, :classroom_id, :class_days, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create class group: %w", err)
	}
	return nil
}

// Update modifies a class group.
func (r *ClassGroupRepository) Update(ctx context.Context, group *models.ClassGroup) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_groups SET name = :name, course_id = :course_id, year = :year, shift = :shift, status = :status,
start_date = :start_date, end_date = :end_date, classroom_id = :classroom_id, class_days = :class_days, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update class group: %w", err)
	}
	return nil
}

// Delete removes a class group.
func (r *ClassGroupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM class_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class group: %w", err)
	}
	return nil
}

// CountReservations returns how many recurring reservations reference the group.
func (r *ClassGroupRepository) CountReservations(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM recurring_reservations WHERE class_group_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count class group reservations: %w", err)
	}
	return count, nil
}
