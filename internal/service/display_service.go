package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

type activeAnnouncementLister interface {
	ListActive(ctx context.Context, at time.Time, limit int) ([]models.Announcement, error)
}

// DisplayConfig tunes the live feed.
type DisplayConfig struct {
	AnnouncementLimit int
	RefreshInterval   time.Duration
}

// LiveFeed is what the hallway display shows right now.
type LiveFeed struct {
	GeneratedAt    time.Time                `json:"generated_at"`
	Shift          scheduling.Shift         `json:"shift"`
	Date           scheduling.Date          `json:"date"`
	Weekday        scheduling.Weekday       `json:"weekday"`
	Groups         []scheduling.ActiveGroup `json:"groups"`
	Announcements  []models.Announcement    `json:"announcements"`
	RefreshSeconds int                      `json:"refresh_seconds"`
}

// DisplayService builds the live display feed. The feed depends on the
// current minute and is never cached.
type DisplayService struct {
	classrooms    classroomLister
	groups        classGroupLister
	announcements activeAnnouncementLister
	logger        *zap.Logger
	cfg           DisplayConfig
}

// NewDisplayService constructs a DisplayService.
func NewDisplayService(classrooms classroomLister, groups classGroupLister, announcements activeAnnouncementLister, logger *zap.Logger, cfg DisplayConfig) *DisplayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AnnouncementLimit <= 0 {
		cfg.AnnouncementLimit = 5
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Minute
	}
	return &DisplayService{classrooms: classrooms, groups: groups, announcements: announcements, logger: logger, cfg: cfg}
}

// Live returns the groups in class at now with their rooms, plus the ticker
// announcements. An announcement failure degrades to an empty ticker.
func (s *DisplayService) Live(ctx context.Context, now time.Time) (*LiveFeed, error) {
	rooms, err := s.classrooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	groups, err := s.groups.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class groups")
	}

	coreRooms := make([]scheduling.Classroom, 0, len(rooms))
	for _, r := range rooms {
		coreRooms = append(coreRooms, toCoreClassroom(r))
	}
	coreGroups := make([]scheduling.ClassGroup, 0, len(groups))
	for _, g := range groups {
		core, err := toCoreClassGroup(g)
		if err != nil {
			s.logger.Warn("display skipping malformed class group", zap.String("id", g.ID), zap.Error(err))
			continue
		}
		coreGroups = append(coreGroups, core)
	}

	shift, date := scheduling.EffectiveShiftAndDate(now)
	feed := &LiveFeed{
		GeneratedAt:    now,
		Shift:          shift,
		Date:           date,
		Weekday:        date.Weekday(),
		Groups:         scheduling.ActiveGroupsForDisplay(coreGroups, coreRooms, now),
		Announcements:  []models.Announcement{},
		RefreshSeconds: int(s.cfg.RefreshInterval.Seconds()),
	}

	if s.announcements != nil {
		items, err := s.announcements.ListActive(ctx, now, s.cfg.AnnouncementLimit)
		if err != nil {
			s.logger.Warn("display announcements unavailable", zap.Error(err))
		} else if items != nil {
			feed.Announcements = items
		}
	}
	return feed, nil
}
