package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ensalamento-api/internal/models"
)

const classroomColumns = "id, name, capacity, under_maintenance, maintenance_reason, created_at, updated_at"

// ClassroomRepository manages persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms matching filter criteria.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error) {
	base := "FROM classrooms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.UnderMaintenance != nil {
		conditions = append(conditions, fmt.Sprintf("under_maintenance = $%d", len(args)+1))
		args = append(args, *filter.UnderMaintenance)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy, order := sortClause(filter.SortBy, filter.SortOrder, "name", map[string]bool{
		"name":       true,
		"capacity":   true,
		"created_at": true,
		"updated_at": true,
	})
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", classroomColumns, base, sortBy, order, limit, offset)
	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classrooms: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count classrooms: %w", err)
	}
	return rooms, total, nil
}

// ListAll returns every classroom ordered by name.
func (r *ClassroomRepository) ListAll(ctx context.Context) ([]models.Classroom, error) {
	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, "SELECT "+classroomColumns+" FROM classrooms ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list all classrooms: %w", err)
	}
	return rooms, nil
}

// FindByID returns a classroom by ID.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	var room models.Classroom
	if err := r.db.GetContext(ctx, &room, "SELECT "+classroomColumns+" FROM classrooms WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByName checks whether another classroom already uses the name.
func (r *ClassroomRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM classrooms WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check classroom name: %w", err)
	}
	return true, nil
}

// Create persists a classroom.
func (r *ClassroomRepository) Create(ctx context.Context, room *models.Classroom) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO classrooms (id, name, capacity, under_maintenance, maintenance_reason, created_at, updated_at) VALUES (:id, :name, :capacity, :under_maintenance, :maintenance_reason, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Update modifies a classroom.
func (r *ClassroomRepository) Update(ctx context.Context, room *models.Classroom) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classrooms SET name = :name, capacity = :capacity, under_maintenance = :under_maintenance, maintenance_reason = :maintenance_reason, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update classroom: %w", err)
	}
	return nil
}

// SetMaintenance toggles the maintenance flag; reason is cleared when leaving maintenance.
func (r *ClassroomRepository) SetMaintenance(ctx context.Context, id string, underMaintenance bool, reason *string) error {
	if !underMaintenance {
		reason = nil
	}
	const query = `UPDATE classrooms SET under_maintenance = $2, maintenance_reason = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, underMaintenance, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set classroom maintenance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a classroom.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classrooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete classroom: %w", err)
	}
	return nil
}

// CountUsage returns how many class groups and reservations reference the classroom.
func (r *ClassroomRepository) CountUsage(ctx context.Context, id string) (int, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM class_groups WHERE classroom_id = $1) +
	(SELECT COUNT(*) FROM recurring_reservations WHERE classroom_id = $1) +
	(SELECT COUNT(*) FROM event_reservations WHERE classroom_id = $1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count classroom usage: %w", err)
	}
	return count, nil
}
