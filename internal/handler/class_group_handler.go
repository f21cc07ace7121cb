package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/service"
	"github.com/noah-isme/ensalamento-api/pkg/response"
)

type classGroupService interface {
	List(ctx context.Context, filter models.ClassGroupFilter) ([]models.ClassGroupDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClassGroup, error)
	Create(ctx context.Context, req service.ClassGroupRequest) (*models.ClassGroup, error)
	Update(ctx context.Context, id string, req service.ClassGroupRequest) (*models.ClassGroup, error)
	Delete(ctx context.Context, id string) error
}

// ClassGroupHandler exposes class group endpoints.
type ClassGroupHandler struct {
	groups classGroupService
}

// NewClassGroupHandler constructs ClassGroupHandler.
func NewClassGroupHandler(groups classGroupService) *ClassGroupHandler {
	return &ClassGroupHandler{groups: groups}
}

// List godoc
// @Summary List class groups
// @Tags ClassGroups
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param classroomId query string false "Filter by classroom"
// @Param shift query string false "Manhã, Tarde or Noite"
// @Param status query string false "Group status"
// @Param year query int false "Year"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /class-groups [get]
func (h *ClassGroupHandler) List(c *gin.Context) {
	filter := models.ClassGroupFilter{
		CourseID:    c.Query("courseId"),
		ClassroomID: c.Query("classroomId"),
		Shift:       c.Query("shift"),
		Status:      c.Query("status"),
		Search:      strings.TrimSpace(c.Query("search")),
		SortBy:      c.Query("sort"),
		SortOrder:   c.Query("order"),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}
	filter.Page, filter.PageSize = paging(c)

	groups, pagination, err := h.groups.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, pagination)
}

// Get godoc
// @Summary Get class group
// @Tags ClassGroups
// @Produce json
// @Param id path string true "Class group ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /class-groups/{id} [get]
func (h *ClassGroupHandler) Get(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Create godoc
// @Summary Create class group
// @Tags ClassGroups
// @Accept json
// @Produce json
// @Param payload body service.ClassGroupRequest true "Class group payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /class-groups [post]
func (h *ClassGroupHandler) Create(c *gin.Context) {
	var req service.ClassGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update class group
// @Tags ClassGroups
// @Accept json
// @Produce json
// @Param id path string true "Class group ID"
// @Param payload body service.ClassGroupRequest true "Class group payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /class-groups/{id} [put]
func (h *ClassGroupHandler) Update(c *gin.Context) {
	var req service.ClassGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.groups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete class group
// @Tags ClassGroups
// @Param id path string true "Class group ID"
// @Success 204
// @Security BearerAuth
// @Router /class-groups/{id} [delete]
func (h *ClassGroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
