package models

import "time"

// Classroom represents a physical room that can host classes and events.
type Classroom struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Capacity          *int      `db:"capacity" json:"capacity,omitempty"`
	UnderMaintenance  bool      `db:"under_maintenance" json:"under_maintenance"`
	MaintenanceReason *string   `db:"maintenance_reason" json:"maintenance_reason,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter defines filter criteria for listing classrooms.
type ClassroomFilter struct {
	Search           string
	UnderMaintenance *bool
	Page             int
	PageSize         int
	SortBy           string
	SortOrder        string
}
