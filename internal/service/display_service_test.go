package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

type stubAnnouncements struct {
	items     []models.Announcement
	err       error
	lastLimit int
}

func (s *stubAnnouncements) ListActive(ctx context.Context, at time.Time, limit int) ([]models.Announcement, error) {
	s.lastLimit = limit
	return s.items, s.err
}

func TestDisplayServiceLive(t *testing.T) {
	c := newCampus()
	anns := &stubAnnouncements{items: []models.Announcement{{ID: "a1", Title: "Semana de provas"}}}
	svc := NewDisplayService(c.rooms, c.groups, anns, nil, DisplayConfig{AnnouncementLimit: 3, RefreshInterval: 30 * time.Second})

	feed, err := svc.Live(context.Background(), time.Date(2025, 3, 3, 9, 30, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, scheduling.ShiftMorning, feed.Shift)
	assert.Equal(t, scheduling.Monday, feed.Weekday)
	require.Len(t, feed.Groups, 1)
	assert.Equal(t, "Turma A", feed.Groups[0].Name)
	require.NotNil(t, feed.Groups[0].ClassroomName)
	assert.Equal(t, "Sala 101", *feed.Groups[0].ClassroomName)
	assert.Len(t, feed.Announcements, 1)
	assert.Equal(t, 3, anns.lastLimit)
	assert.Equal(t, 30, feed.RefreshSeconds)
}

func TestDisplayServiceLiveBeforeDawnUsesPreviousEvening(t *testing.T) {
	c := newCampus()
	c.groups.groups["group-b"].Status = "Em Andamento"
	svc := NewDisplayService(c.rooms, c.groups, nil, nil, DisplayConfig{})

	feed, err := svc.Live(context.Background(), time.Date(2025, 3, 5, 2, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, scheduling.ShiftEvening, feed.Shift)
	assert.Equal(t, "2025-03-04", feed.Date.String())
	require.Len(t, feed.Groups, 1)
	assert.Equal(t, "Turma B", feed.Groups[0].Name)
	assert.Nil(t, feed.Groups[0].ClassroomName)
	assert.NotNil(t, feed.Announcements)
	assert.Equal(t, 60, feed.RefreshSeconds)
}

func TestDisplayServiceLiveDegradesWithoutAnnouncements(t *testing.T) {
	c := newCampus()
	svc := NewDisplayService(c.rooms, c.groups, &stubAnnouncements{err: errBoom}, nil, DisplayConfig{})

	feed, err := svc.Live(context.Background(), time.Date(2025, 3, 3, 9, 30, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Empty(t, feed.Announcements)

	c.groups.listErr = errBoom
	_, err = svc.Live(context.Background(), time.Now())
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
