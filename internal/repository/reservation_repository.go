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

const recurringColumns = `id, class_group_id, classroom_id,
to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date,
purpose, created_at, updated_at`

const eventColumns = `id, classroom_id, title, to_char(date, 'YYYY-MM-DD') AS date,
to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time,
responsible, details, created_at, updated_at`

// RecurringReservationRepository persists classroom bookings that follow a class group's weekdays.
type RecurringReservationRepository struct {
	db *sqlx.DB
}

// NewRecurringReservationRepository constructs the repository.
func NewRecurringReservationRepository(db *sqlx.DB) *RecurringReservationRepository {
	return &RecurringReservationRepository{db: db}
}

// List returns recurring reservations filtered by classroom, class group or active date window.
func (r *RecurringReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.RecurringReservation, int, error) {
	base := "FROM recurring_reservations WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.ClassGroupID != "" {
		conditions = append(conditions, fmt.Sprintf("class_group_id = $%d", len(args)+1))
		args = append(args, filter.ClassGroupID)
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d AND end_date >= $%d", len(args)+1, len(args)+1))
		args = append(args, filter.Date)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY start_date ASC, id ASC LIMIT %d OFFSET %d", recurringColumns, base, limit, offset)
	var items []models.RecurringReservation
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list recurring reservations: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count recurring reservations: %w", err)
	}
	return items, total, nil
}

// ListAll returns every recurring reservation.
func (r *RecurringReservationRepository) ListAll(ctx context.Context) ([]models.RecurringReservation, error) {
	var items []models.RecurringReservation
	if err := r.db.SelectContext(ctx, &items, "SELECT "+recurringColumns+" FROM recurring_reservations ORDER BY start_date ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("list all recurring reservations: %w", err)
	}
	return items, nil
}

// FindByID returns a recurring reservation by ID.
func (r *RecurringReservationRepository) FindByID(ctx context.Context, id string) (*models.RecurringReservation, error) {
	var item models.RecurringReservation
	if err := r.db.GetContext(ctx, &item, "SELECT "+recurringColumns+" FROM recurring_reservations WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists a recurring reservation.
func (r *RecurringReservationRepository) Create(ctx context.Context, item *models.RecurringReservation) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO recurring_reservations (id, class_group_id, classroom_id, start_date, end_date, purpose, created_at, updated_at)
VALUES (:id, :class_group_id, :classroom_id, :start_date, :end_date, :purpose, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create recurring reservation: %w", err)
	}
	return nil
}

// Update modifies a recurring reservation.
func (r *RecurringReservationRepository) Update(ctx context.Context, item *models.RecurringReservation) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE recurring_reservations SET class_group_id = :class_group_id, classroom_id = :classroom_id, start_date = :start_date,
end_date = :end_date, purpose = :purpose, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update recurring reservation: %w", err)
	}
	return nil
}

// Delete removes a recurring reservation.
func (r *RecurringReservationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_reservations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete recurring reservation: %w", err)
	}
	return nil
}

// EventReservationRepository persists one-off classroom bookings.
type EventReservationRepository struct {
	db *sqlx.DB
}

// NewEventReservationRepository constructs the repository.
func NewEventReservationRepository(db *sqlx.DB) *EventReservationRepository {
	return &EventReservationRepository{db: db}
}

// List returns events filtered by classroom and date window.
func (r *EventReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.EventReservation, int, error) {
	base := "FROM event_reservations WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.From != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.To)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, start_time ASC LIMIT %d OFFSET %d", eventColumns, base, limit, offset)
	var items []models.EventReservation
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list event reservations: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count event reservations: %w", err)
	}
	return items, total, nil
}

// ListAll returns every event reservation.
func (r *EventReservationRepository) ListAll(ctx context.Context) ([]models.EventReservation, error) {
	var items []models.EventReservation
	if err := r.db.SelectContext(ctx, &items, "SELECT "+eventColumns+" FROM event_reservations ORDER BY date ASC, start_time ASC"); err != nil {
		return nil, fmt.Errorf("list all event reservations: %w", err)
	}
	return items, nil
}

// FindByID returns an event reservation by ID.
func (r *EventReservationRepository) FindByID(ctx context.Context, id string) (*models.EventReservation, error) {
	var item models.EventReservation
	if err := r.db.GetContext(ctx, &item, "SELECT "+eventColumns+" FROM event_reservations WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists an event reservation.
func (r *EventReservationRepository) Create(ctx context.Context, item *models.EventReservation) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO event_reservations (id, classroom_id, title, date, start_time, end_time, responsible, details, created_at, updated_at)
VALUES (:id, :classroom_id, :title, :date, :start_time, :end_time, :responsible, :details, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create event reservation: %w", err)
	}
	return nil
}

// Update modifies an event reservation.
func (r *EventReservationRepository) Update(ctx context.Context, item *models.EventReservation) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE event_reservations SET classroom_id = :classroom_id, title = :title, date = :date, start_time = :start_time,
end_time = :end_time, responsible = :responsible, details = :details, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update event reservation: %w", err)
	}
	return nil
}

// Delete removes an event reservation.
func (r *EventReservationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event_reservations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event reservation: %w", err)
	}
	return nil
}
