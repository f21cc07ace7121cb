package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	"github.com/noah-isme/ensalamento-api/internal/service"
	"github.com/noah-isme/ensalamento-api/pkg/response"
)

type reservationService interface {
	ListRecurring(ctx context.Context, filter models.ReservationFilter) ([]models.RecurringReservation, *models.Pagination, error)
	GetRecurring(ctx context.Context, id string) (*models.RecurringReservation, error)
	CreateRecurring(ctx context.Context, req service.RecurringReservationRequest) (*models.RecurringReservation, error)
	UpdateRecurring(ctx context.Context, id string, req service.RecurringReservationRequest) (*models.RecurringReservation, error)
	DeleteRecurring(ctx context.Context, id string) error
	PreviewRecurring(ctx context.Context, req service.PreviewRecurringRequest) (*scheduling.OccurrencePreview, error)

	ListEvents(ctx context.Context, filter models.ReservationFilter) ([]models.EventReservation, *models.Pagination, error)
	GetEvent(ctx context.Context, id string) (*models.EventReservation, error)
	CreateEvent(ctx context.Context, req service.EventReservationRequest) (*models.EventReservation, error)
	UpdateEvent(ctx context.Context, id string, req service.EventReservationRequest) (*models.EventReservation, error)
	DeleteEvent(ctx context.Context, id string) error
}

// ReservationHandler exposes recurring and event reservation endpoints.
type ReservationHandler struct {
	reservations reservationService
}

// NewReservationHandler constructs ReservationHandler.
func NewReservationHandler(reservations reservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

func reservationFilter(c *gin.Context) models.ReservationFilter {
	filter := models.ReservationFilter{
		ClassroomID:  c.Query("classroomId"),
		ClassGroupID: c.Query("classGroupId"),
		Date:         c.Query("date"),
		From:         c.Query("from"),
		To:           c.Query("to"),
	}
	filter.Page, filter.PageSize = paging(c)
	return filter
}

// ListRecurring godoc
// @Summary List recurring reservations
// @Tags Reservations
// @Produce json
// @Param classroomId query string false "Classroom"
// @Param classGroupId query string false "Class group"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/recurring [get]
func (h *ReservationHandler) ListRecurring(c *gin.Context) {
	items, pagination, err := h.reservations.ListRecurring(c.Request.Context(), reservationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// GetRecurring godoc
// @Summary Get recurring reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/recurring/{id} [get]
func (h *ReservationHandler) GetRecurring(c *gin.Context) {
	item, err := h.reservations.GetRecurring(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CreateRecurring godoc
// @Summary Create recurring reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.RecurringReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/recurring [post]
func (h *ReservationHandler) CreateRecurring(c *gin.Context) {
	var req service.RecurringReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.reservations.CreateRecurring(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateRecurring godoc
// @Summary Update recurring reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.RecurringReservationRequest true "Reservation payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/recurring/{id} [put]
func (h *ReservationHandler) UpdateRecurring(c *gin.Context) {
	var req service.RecurringReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.reservations.UpdateRecurring(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteRecurring godoc
// @Summary Delete recurring reservation
// @Tags Reservations
// @Param id path string true "Reservation ID"
// @Success 204
// @Security BearerAuth
// @Router /reservations/recurring/{id} [delete]
func (h *ReservationHandler) DeleteRecurring(c *gin.Context) {
	if err := h.reservations.DeleteRecurring(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PreviewRecurring godoc
// @Summary Preview class occurrences
// @Description Returns the dates of the next N classes of a group and the date of the last one
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.PreviewRecurringRequest true "Preview payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/recurring/preview [post]
func (h *ReservationHandler) PreviewRecurring(c *gin.Context) {
	var req service.PreviewRecurringRequest
	if !bindJSON(c, &req) {
		return
	}
	preview, err := h.reservations.PreviewRecurring(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// ListEvents godoc
// @Summary List event reservations
// @Tags Reservations
// @Produce json
// @Param classroomId query string false "Classroom"
// @Param date query string false "Exact date"
// @Param from query string false "From date"
// @Param to query string false "To date"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/events [get]
func (h *ReservationHandler) ListEvents(c *gin.Context) {
	items, pagination, err := h.reservations.ListEvents(c.Request.Context(), reservationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// GetEvent godoc
// @Summary Get event reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/events/{id} [get]
func (h *ReservationHandler) GetEvent(c *gin.Context) {
	item, err := h.reservations.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CreateEvent godoc
// @Summary Create event reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.EventReservationRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/events [post]
func (h *ReservationHandler) CreateEvent(c *gin.Context) {
	var req service.EventReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.reservations.CreateEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateEvent godoc
// @Summary Update event reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.EventReservationRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/events/{id} [put]
func (h *ReservationHandler) UpdateEvent(c *gin.Context) {
	var req service.EventReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.reservations.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteEvent godoc
// @Summary Delete event reservation
// @Tags Reservations
// @Param id path string true "Reservation ID"
// @Success 204
// @Security BearerAuth
// @Router /reservations/events/{id} [delete]
func (h *ReservationHandler) DeleteEvent(c *gin.Context) {
	if err := h.reservations.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
