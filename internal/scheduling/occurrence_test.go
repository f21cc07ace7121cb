package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNthOccurrenceDate(t *testing.T) {
	wednesday := MustParseDate("2024-03-06")
	cases := []struct {
		name string
		days []string
		n    int
		want string
	}{
		{name: "first monday after a wednesday", days: []string{"Segunda"}, n: 1, want: "2024-03-11"},
		{name: "start day counts", days: []string{"Quarta"}, n: 1, want: "2024-03-06"},
		{name: "two days a week", days: []string{"Segunda", "Quarta"}, n: 4, want: "2024-03-18"},
		{name: "order independent", days: []string{"Quarta", "Segunda"}, n: 4, want: "2024-03-18"},
		{name: "crosses month", days: []string{"Sexta"}, n: 4, want: "2024-03-29"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NthOccurrenceDate(wednesday, tc.days, tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNthOccurrenceDateErrors(t *testing.T) {
	start := MustParseDate("2024-03-06")

	_, err := NthOccurrenceDate(start, nil, 1)
	require.ErrorIs(t, err, ErrNoMatchingWeekday)

	_, err = NthOccurrenceDate(start, []string{"Feriado"}, 1)
	require.ErrorIs(t, err, ErrNoMatchingWeekday)

	_, err = NthOccurrenceDate(start, []string{"Segunda"}, 0)
	require.ErrorIs(t, err, ErrInvalidOccurrenceCount)

	_, err = NthOccurrenceDate(start, []string{"Segunda"}, MaxOccurrenceLookahead)
	require.ErrorIs(t, err, ErrNoMatchingWeekday, "cap is reported, not a wrong date")
}

func TestPreviewOccurrences(t *testing.T) {
	preview, err := PreviewOccurrences(MustParseDate("2024-03-04"), []string{"Quarta", "Segunda"}, 12)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", preview.FirstDate.String())
	assert.Equal(t, "2024-04-10", preview.EndDate.String())
	assert.Equal(t, []Weekday{Monday, Wednesday}, preview.ClassDays)
	assert.Equal(t, "Primeira aula: 2024-03-04 (Segunda) · Última aula: 2024-04-10 (Quarta) · 12 aulas", preview.Summary)

	single, err := PreviewOccurrences(MustParseDate("2024-03-04"), []string{"Segunda"}, 1)
	require.NoError(t, err)
	assert.Contains(t, single.Summary, "1 aula")
}
