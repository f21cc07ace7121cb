package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ensalamento-api/api/swagger"
	"github.com/noah-isme/ensalamento-api/internal/handler"
	"github.com/noah-isme/ensalamento-api/internal/middleware"
	"github.com/noah-isme/ensalamento-api/internal/repository"
	"github.com/noah-isme/ensalamento-api/internal/service"
	"github.com/noah-isme/ensalamento-api/pkg/cache"
	"github.com/noah-isme/ensalamento-api/pkg/config"
	"github.com/noah-isme/ensalamento-api/pkg/database"
	"github.com/noah-isme/ensalamento-api/pkg/jobs"
	"github.com/noah-isme/ensalamento-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ensalamento-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ensalamento-api/pkg/middleware/requestid"
	"github.com/noah-isme/ensalamento-api/pkg/storage"
)

// @title Ensalamento API
// @version 1.0.0
// @description Classroom allocation, reservations and live occupancy
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, occupancy cache disabled", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	classroomRepo := repository.NewClassroomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	groupRepo := repository.NewClassGroupRepository(db)
	recurringRepo := repository.NewRecurringReservationRepository(db)
	eventRepo := repository.NewEventReservationRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Occupancy.CacheTTL, logr, cfg.Occupancy.CacheEnabled && cacheRepo.Enabled())
	loader := service.NewSnapshotLoader(classroomRepo, groupRepo, recurringRepo, eventRepo, metrics, logr)
	occupancySvc := service.NewOccupancyService(loader, cacheSvc, metrics, logr, service.OccupancyConfig{CacheTTL: cfg.Occupancy.CacheTTL})

	warmQueue := jobs.NewQueue("occupancy-warm", occupancySvc.HandleWarmJob, jobs.QueueConfig{
		Workers:    cfg.Occupancy.WarmWorkers,
		MaxRetries: cfg.Occupancy.WarmRetries,
		Logger:     logr,
	})
	warmQueue.Start(ctx)
	defer warmQueue.Stop()
	occupancySvc.SetWarmQueue(warmQueue)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	classroomSvc := service.NewClassroomService(classroomRepo, occupancySvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	groupSvc := service.NewClassGroupService(groupRepo, courseRepo, classroomRepo, occupancySvc, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, validate, logr)
	reservationSvc := service.NewReservationService(recurringRepo, eventRepo, classroomRepo, groupRepo, loader, occupancySvc, metrics, validate, logr)
	displaySvc := service.NewDisplayService(classroomRepo, groupRepo, announcementRepo, logr, service.DisplayConfig{
		AnnouncementLimit: cfg.Display.AnnouncementLimit,
		RefreshInterval:   cfg.Display.RefreshInterval,
	})

	occupancyHandler := handler.NewOccupancyHandler(occupancySvc, nil)
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			return fmt.Errorf("init export storage: %w", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(occupancySvc, files, signer, metrics, logr, service.ExportConfig{APIPrefix: cfg.APIPrefix})
		exportSvc.StartCleanup(ctx, cfg.Exports.CleanupInterval)
		occupancyHandler = handler.NewOccupancyHandler(occupancySvc, exportSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Classrooms:    handler.NewClassroomHandler(classroomSvc),
		Courses:       handler.NewCourseHandler(courseSvc),
		ClassGroups:   handler.NewClassGroupHandler(groupSvc),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Reservations:  handler.NewReservationHandler(reservationSvc),
		Occupancy:     occupancyHandler,
		Display:       handler.NewDisplayHandler(displaySvc),
		Metrics: handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
			"postgres": db,
			"redis":    handler.PingFunc(cacheRepo.Ping),
		}),
	}, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
