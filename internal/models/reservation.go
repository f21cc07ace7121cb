package models

import "time"

// RecurringReservation books a classroom on the class days of a class group.
type RecurringReservation struct {
	ID           string    `db:"id" json:"id"`
	ClassGroupID string    `db:"class_group_id" json:"class_group_id"`
	ClassroomID  string    `db:"classroom_id" json:"classroom_id"`
	StartDate    string    `db:"start_date" json:"start_date"`
	EndDate      string    `db:"end_date" json:"end_date"`
	Purpose      string    `db:"purpose" json:"purpose"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// EventReservation books a classroom for a single date and clock range.
type EventReservation struct {
	ID          string    `db:"id" json:"id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	Title       string    `db:"title" json:"title"`
	Date        string    `db:"date" json:"date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Responsible string    `db:"responsible" json:"responsible"`
	Details     *string   `db:"details" json:"details,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	ClassroomID  string
	ClassGroupID string
	Date         string
	From         string
	To           string
	Page         int
	PageSize     int
}
