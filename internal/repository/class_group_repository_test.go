package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ensalamento-api/internal/models"
)

var classGroupRowColumns = []string{"id", "name", "course_id", "year", "shift", "status", "start_date", "end_date", "classroom_id", "class_days", "created_at", "updated_at"}

func TestClassGroupListAllScansClassDays(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassGroupRepository(db)

	now := time.Now()
	mock.ExpectQuery("to_char\\(g.start_date, 'YYYY-MM-DD'\\) AS start_date.* FROM class_groups g ORDER BY g.name ASC").
		WillReturnRows(sqlmock.NewRows(classGroupRowColumns).
			AddRow("g1", "Turma A", nil, 2024, "Manhã", "Em Andamento", "2024-02-01", "2024-06-30", "c1", "{Segunda,Quarta}", now, now))

	groups, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, pq.StringArray{"Segunda", "Quarta"}, groups[0].ClassDays)
	assert.Equal(t, "2024-02-01", groups[0].StartDate)
	require.NotNil(t, groups[0].ClassroomID)
	assert.Nil(t, groups[0].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassGroupListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassGroupRepository(db)

	columns := append(append([]string{}, classGroupRowColumns...), "course_name", "classroom_name")
	mock.ExpectQuery(regexp.QuoteMeta("AND g.shift = $1 AND g.status = $2 AND g.year = $3 ORDER BY g.name ASC LIMIT 20 OFFSET 0")).
		WithArgs("Noite", "Planejada", 2024).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM class_groups g")).
		WithArgs("Noite", "Planejada", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.ClassGroupFilter{Shift: "Noite", Status: "Planejada", Year: 2024})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassGroupCountReservations(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM recurring_reservations WHERE class_group_id = $1")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountReservations(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
