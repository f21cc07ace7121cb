package models

import (
	"time"

	"github.com/lib/pq"
)

// ClassGroup is a cohort following a course on fixed weekdays within a date range.
// Dates are YYYY-MM-DD strings; shift, status and class days use the stored
// Portuguese names.
type ClassGroup struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	CourseID    *string        `db:"course_id" json:"course_id,omitempty"`
	Year        int            `db:"year" json:"year"`
	Shift       string         `db:"shift" json:"shift"`
	Status      string         `db:"status" json:"status"`
	StartDate   string         `db:"start_date" json:"start_date"`
	EndDate     string         `db:"end_date" json:"end_date"`
	ClassroomID *string        `db:"classroom_id" json:"classroom_id,omitempty"`
	ClassDays   pq.StringArray `db:"class_days" json:"class_days"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassGroupDetail adds joined names for list screens.
type ClassGroupDetail struct {
	ClassGroup
	CourseName    *string `db:"course_name" json:"course_name,omitempty"`
	ClassroomName *string `db:"classroom_name" json:"classroom_name,omitempty"`
}

// ClassGroupFilter defines filter criteria for listing class groups.
type ClassGroupFilter struct {
	CourseID    string
	ClassroomID string
	Shift       string
	Status      string
	Year        int
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
