package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var announcementRowColumns = []string{"id", "title", "content", "priority", "is_pinned", "published_at", "expires_at", "created_by", "created_at", "updated_at"}

func TestAnnouncementListActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE published_at <= $1 AND (expires_at IS NULL OR expires_at > $1)")).
		WithArgs(at).
		WillReturnRows(sqlmock.NewRows(announcementRowColumns).
			AddRow("a1", "Feriado", "Sem aulas", "HIGH", true, at.Add(-time.Hour), nil, "u1", at, at))

	items, err := repo.ListActive(context.Background(), at, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsPinned)
	assert.Nil(t, items[0].ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements WHERE id = $1")).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
