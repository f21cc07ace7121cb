package scheduling

import (
	"encoding/json"
	"strings"
	"time"
)

// Weekday is a named day of the week as stored on class groups.
type Weekday string

const (
	Sunday    Weekday = "Domingo"
	Monday    Weekday = "Segunda"
	Tuesday   Weekday = "Terça"
	Wednesday Weekday = "Quarta"
	Thursday  Weekday = "Quinta"
	Friday    Weekday = "Sexta"
	Saturday  Weekday = "Sábado"
)

var weekdaysByTime = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func weekdayFromTime(d time.Weekday) Weekday {
	return weekdaysByTime[d]
}

// AllWeekdays lists the week starting on Sunday.
func AllWeekdays() []Weekday {
	out := make([]Weekday, len(weekdaysByTime))
	copy(out, weekdaysByTime[:])
	return out
}

// ParseWeekday resolves a stored weekday name. Matching ignores case and the
// "-feira" suffix some clients append.
func ParseWeekday(raw string) (Weekday, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.TrimSuffix(norm, "-feira")
	for _, d := range weekdaysByTime {
		if strings.ToLower(string(d)) == norm {
			return d, true
		}
	}
	return "", false
}

// WeekdaySet is an order-independent set of weekdays.
type WeekdaySet map[Weekday]struct{}

// NewWeekdaySet builds a set from names, ignoring unknown and duplicate entries.
func NewWeekdaySet(days []string) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, raw := range days {
		if d, ok := ParseWeekday(raw); ok {
			set[d] = struct{}{}
		}
	}
	return set
}

// Has reports set membership.
func (s WeekdaySet) Has(d Weekday) bool {
	_, ok := s[d]
	return ok
}

// Intersects reports whether both sets share a weekday.
func (s WeekdaySet) Intersects(other WeekdaySet) bool {
	for d := range s {
		if other.Has(d) {
			return true
		}
	}
	return false
}

// Sorted returns the members in Sunday-first order.
func (s WeekdaySet) Sorted() []Weekday {
	out := make([]Weekday, 0, len(s))
	for _, d := range weekdaysByTime {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// MarshalJSON renders the set as a Sunday-first list of names.
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads a list of names, ignoring unknown entries.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewWeekdaySet(names)
	return nil
}
