package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

// MaxOccurrenceLookahead bounds the day-by-day search for class days (ten years).
const MaxOccurrenceLookahead = 3660

var (
	// ErrNoMatchingWeekday means no class day was found within MaxOccurrenceLookahead days.
	ErrNoMatchingWeekday = errors.New("scheduling: no matching weekday within search horizon")
	// ErrInvalidOccurrenceCount means the requested occurrence number is below one.
	ErrInvalidOccurrenceCount = errors.New("scheduling: occurrence count must be at least 1")
)

// NthOccurrenceDate walks forward from start (inclusive) and returns the date of the
// n-th day whose weekday is in days.
func NthOccurrenceDate(start Date, days []string, n int) (Date, error) {
	if n < 1 {
		return Date{}, ErrInvalidOccurrenceCount
	}
	set := NewWeekdaySet(days)
	if len(set) == 0 {
		return Date{}, ErrNoMatchingWeekday
	}
	count := 0
	current := start
	for step := 0; step < MaxOccurrenceLookahead; step++ {
		if set.Has(current.Weekday()) {
			count++
			if count == n {
				return current, nil
			}
		}
		current = current.AddDays(1)
	}
	return Date{}, fmt.Errorf("%w: %d of %d occurrences found", ErrNoMatchingWeekday, count, n)
}

// OccurrencePreview describes the span implied by a recurring schedule.
type OccurrencePreview struct {
	FirstDate Date      `json:"first_date"`
	EndDate   Date      `json:"end_date"`
	Count     int       `json:"count"`
	ClassDays []Weekday `json:"class_days"`
	Summary   string    `json:"summary"`
}

// PreviewOccurrences computes the first and last class dates of a recurring
// schedule of n occurrences.
func PreviewOccurrences(start Date, days []string, n int) (OccurrencePreview, error) {
	first, err := NthOccurrenceDate(start, days, 1)
	if err != nil {
		return OccurrencePreview{}, err
	}
	last, err := NthOccurrenceDate(start, days, n)
	if err != nil {
		return OccurrencePreview{}, err
	}
	preview := OccurrencePreview{
		FirstDate: first,
		EndDate:   last,
		Count:     n,
		ClassDays: NewWeekdaySet(days).Sorted(),
	}
	preview.Summary = summarize(preview)
	return preview, nil
}

func summarize(p OccurrencePreview) string {
	unit := "aulas"
	if p.Count == 1 {
		unit = "aula"
	}
	parts := []string{
		fmt.Sprintf("Primeira aula: %s (%s)", p.FirstDate, p.FirstDate.Weekday()),
		fmt.Sprintf("Última aula: %s (%s)", p.EndDate, p.EndDate.Weekday()),
		fmt.Sprintf("%d %s", p.Count, unit),
	}
	return strings.Join(parts, " · ")
}
