package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/middleware"
	"github.com/noah-isme/ensalamento-api/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth          *AuthHandler
	Classrooms    *ClassroomHandler
	Courses       *CourseHandler
	ClassGroups   *ClassGroupHandler
	Announcements *AnnouncementHandler
	Reservations  *ReservationHandler
	Occupancy     *OccupancyHandler
	Display       *DisplayHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the public, authenticated and admin routes on r.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, tokens middleware.TokenValidator) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/display/live", h.Display.Live)
	api.GET("/occupancy", h.Occupancy.Grid)
	api.GET("/occupancy/cell", h.Occupancy.Cell)
	api.GET("/exports/download/:token", h.Occupancy.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.Auth.Me)

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	rooms := admin.Group("/classrooms")
	rooms.GET("", h.Classrooms.List)
	rooms.POST("", h.Classrooms.Create)
	rooms.GET("/:id", h.Classrooms.Get)
	rooms.PUT("/:id", h.Classrooms.Update)
	rooms.PATCH("/:id/maintenance", h.Classrooms.SetMaintenance)
	rooms.DELETE("/:id", h.Classrooms.Delete)

	courses := admin.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)

	groups := admin.Group("/class-groups")
	groups.GET("", h.ClassGroups.List)
	groups.POST("", h.ClassGroups.Create)
	groups.GET("/:id", h.ClassGroups.Get)
	groups.PUT("/:id", h.ClassGroups.Update)
	groups.DELETE("/:id", h.ClassGroups.Delete)

	announcements := admin.Group("/announcements")
	announcements.GET("", h.Announcements.List)
	announcements.POST("", h.Announcements.Create)
	announcements.GET("/:id", h.Announcements.Get)
	announcements.PUT("/:id", h.Announcements.Update)
	announcements.DELETE("/:id", h.Announcements.Delete)

	recurring := admin.Group("/reservations/recurring")
	recurring.GET("", h.Reservations.ListRecurring)
	recurring.POST("", h.Reservations.CreateRecurring)
	recurring.POST("/preview", h.Reservations.PreviewRecurring)
	recurring.GET("/:id", h.Reservations.GetRecurring)
	recurring.PUT("/:id", h.Reservations.UpdateRecurring)
	recurring.DELETE("/:id", h.Reservations.DeleteRecurring)

	events := admin.Group("/reservations/events")
	events.GET("", h.Reservations.ListEvents)
	events.POST("", h.Reservations.CreateEvent)
	events.GET("/:id", h.Reservations.GetEvent)
	events.PUT("/:id", h.Reservations.UpdateEvent)
	events.DELETE("/:id", h.Reservations.DeleteEvent)

	admin.POST("/occupancy/export", h.Occupancy.Export)
}
