package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
	"github.com/noah-isme/ensalamento-api/pkg/jobs"
)

const (
	occupancyCachePattern = "occ:*"
	warmJobType           = "occupancy.warm"
)

func occupancyGridKey(date scheduling.Date) string {
	return "occ:grid:" + date.String()
}

type warmQueue interface {
	Enqueue(job jobs.Job) (bool, error)
}

// OccupancyConfig tunes OccupancyService.
type OccupancyConfig struct {
	CacheTTL time.Duration
}

// OccupancyService computes classroom availability grids and keeps the cache warm.
type OccupancyService struct {
	loader  snapshotLoader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     OccupancyConfig
	queue   warmQueue
	now     func() time.Time
}

// NewOccupancyService constructs an OccupancyService.
func NewOccupancyService(loader snapshotLoader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg OccupancyConfig) *OccupancyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OccupancyService{loader: loader, cache: cache, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// SetWarmQueue attaches the queue used to recompute today's grid after writes.
func (s *OccupancyService) SetWarmQueue(q warmQueue) {
	s.queue = q
}

// Today returns the current calendar date in local time.
func (s *OccupancyService) Today() scheduling.Date {
	return scheduling.DateOf(s.now())
}

// Grid returns the occupancy grid for date and whether it came from cache.
func (s *OccupancyService) Grid(ctx context.Context, date scheduling.Date) (*scheduling.Grid, bool, error) {
	if date.IsZero() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	key := occupancyGridKey(date)
	var cached scheduling.Grid
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	grid, err := s.compute(ctx, date)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, grid, s.cfg.CacheTTL)
	return grid, false, nil
}

// Cell returns the status of one classroom during one shift on date.
func (s *OccupancyService) Cell(ctx context.Context, classroomID string, shift scheduling.Shift, date scheduling.Date) (*scheduling.Cell, error) {
	if _, ok := scheduling.ParseShift(string(shift)); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "shift must be Manhã, Tarde or Noite")
	}
	grid, _, err := s.Grid(ctx, date)
	if err != nil {
		return nil, err
	}
	cell, ok := grid.Cell(classroomID, shift)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}
	return &cell, nil
}

// Invalidate drops every cached grid and schedules a recompute of today's.
func (s *OccupancyService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, occupancyCachePattern); err != nil {
		return
	}
	if s.queue == nil || !s.cache.Enabled() {
		return
	}
	today := s.Today()
	job := jobs.Job{
		ID:      fmt.Sprintf("warm-%s-%d", today, s.now().UnixNano()),
		Type:    warmJobType,
		Key:     occupancyGridKey(today),
		Payload: today.String(),
	}
	if _, err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue occupancy warm-up", zap.Error(err))
	}
}

// HandleWarmJob is the jobs.Handler that recomputes and caches a grid.
func (s *OccupancyService) HandleWarmJob(ctx context.Context, job jobs.Job) error {
	raw, _ := job.Payload.(string)
	date, err := scheduling.ParseDate(raw)
	if err != nil {
		// A malformed payload can never succeed; drop it instead of retrying.
		s.logger.Error("invalid warm-up payload", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}
	grid, err := s.compute(ctx, date)
	if err != nil {
		return err
	}
	s.cache.Set(ctx, occupancyGridKey(date), grid, s.cfg.CacheTTL)
	return nil
}

func (s *OccupancyService) compute(ctx context.Context, date scheduling.Date) (*scheduling.Grid, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	occ := scheduling.ComputeOccupancy(date, snap, scheduling.WithSkipHandler(s.skipped(date)))
	grid := occ.Grid()
	s.metrics.ObserveOccupancy(time.Since(start))

	if date.Equal(s.Today()) {
		counts := make(map[string]int, 3)
		for status, n := range grid.Summary() {
			counts[string(status)] = n
		}
		s.metrics.SetCellCounts(counts)
	}
	return grid, nil
}

func (s *OccupancyService) skipped(date scheduling.Date) scheduling.SkipFunc {
	return func(kind scheduling.OccupancyKind, id string, err error) {
		s.metrics.IncSkipped(string(kind))
		level := s.logger.Warn
		if errors.Is(err, scheduling.ErrMissingClassGroup) {
			level = s.logger.Info
		}
		level("skipping malformed entity",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.String("date", date.String()),
			zap.Error(err))
	}
}
