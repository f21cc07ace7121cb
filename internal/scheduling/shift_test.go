package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftForHour(t *testing.T) {
	cases := map[int]Shift{
		0:  ShiftNone,
		5:  ShiftNone,
		6:  ShiftMorning,
		11: ShiftMorning,
		12: ShiftAfternoon,
		17: ShiftAfternoon,
		18: ShiftEvening,
		23: ShiftEvening,
	}
	for hour, want := range cases {
		assert.Equal(t, want, ShiftForHour(hour), "hour %d", hour)
	}
}

func TestEffectiveShiftAndDate(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)
	cases := []struct {
		hour      int
		wantShift Shift
		wantDate  string
	}{
		{hour: 0, wantShift: ShiftEvening, wantDate: "2024-03-04"},
		{hour: 2, wantShift: ShiftEvening, wantDate: "2024-03-04"},
		{hour: 5, wantShift: ShiftEvening, wantDate: "2024-03-04"},
		{hour: 6, wantShift: ShiftMorning, wantDate: "2024-03-05"},
		{hour: 12, wantShift: ShiftAfternoon, wantDate: "2024-03-05"},
		{hour: 19, wantShift: ShiftEvening, wantDate: "2024-03-05"},
		{hour: 23, wantShift: ShiftEvening, wantDate: "2024-03-05"},
	}
	for _, tc := range cases {
		now := day.Add(time.Duration(tc.hour)*time.Hour + 59*time.Minute)
		shift, date := EffectiveShiftAndDate(now)
		assert.Equal(t, tc.wantShift, shift, "hour %d", tc.hour)
		assert.Equal(t, tc.wantDate, date.String(), "hour %d", tc.hour)
	}
}

func TestEffectiveShiftRollsOverMonthStart(t *testing.T) {
	now := time.Date(2024, time.March, 1, 1, 15, 0, 0, time.Local)
	shift, date := EffectiveShiftAndDate(now)
	assert.Equal(t, ShiftEvening, shift)
	assert.Equal(t, "2024-02-29", date.String())
}

func TestShiftClockRange(t *testing.T) {
	assert.Equal(t, "06:00", ShiftMorning.ClockRange().Start.String())
	assert.Equal(t, "12:00", ShiftMorning.ClockRange().End.String())
	assert.Equal(t, "24:00", ShiftEvening.ClockRange().End.String())
	assert.False(t, ShiftNone.ClockRange().Valid())
}

func TestParseShift(t *testing.T) {
	s, ok := ParseShift("manhã")
	require.True(t, ok)
	assert.Equal(t, ShiftMorning, s)
	_, ok = ParseShift("Madrugada")
	assert.False(t, ok)
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("segunda-feira")
	require.True(t, ok)
	assert.Equal(t, Monday, d)

	set := NewWeekdaySet([]string{"Quarta", "Segunda", "Segunda", "Feriado"})
	assert.Equal(t, []Weekday{Monday, Wednesday}, set.Sorted())
}
