package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/middleware"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	"github.com/noah-isme/ensalamento-api/internal/service"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
	"github.com/noah-isme/ensalamento-api/pkg/export"
	"github.com/noah-isme/ensalamento-api/pkg/response"
)

type occupancyService interface {
	Today() scheduling.Date
	Grid(ctx context.Context, date scheduling.Date) (*scheduling.Grid, bool, error)
	Cell(ctx context.Context, classroomID string, shift scheduling.Shift, date scheduling.Date) (*scheduling.Cell, error)
}

type exportService interface {
	ExportGrid(ctx context.Context, date scheduling.Date, format export.Format) (*service.ExportResult, error)
	ResolveDownload(token string) (*service.ExportDownload, error)
}

// ExportRequest selects the day and format of a grid export.
type ExportRequest struct {
	Date   string `json:"date"`
	Format string `json:"format"`
}

// OccupancyHandler serves the occupancy grid and its exports.
type OccupancyHandler struct {
	occupancy occupancyService
	exports   exportService
}

// NewOccupancyHandler constructs OccupancyHandler. exports may be nil when
// exporting is disabled.
func NewOccupancyHandler(occupancy occupancyService, exports exportService) *OccupancyHandler {
	return &OccupancyHandler{occupancy: occupancy, exports: exports}
}

// Grid godoc
// @Summary Occupancy grid
// @Description Status of every classroom in every shift for a date (defaults to today)
// @Tags Occupancy
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /occupancy [get]
func (h *OccupancyHandler) Grid(c *gin.Context) {
	date, ok := queryDate(c, "date", h.occupancy.Today())
	if !ok {
		return
	}
	grid, hit, err := h.occupancy.Grid(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	meta := middleware.ExtractMeta(c)
	meta["summary"] = grid.Summary()
	response.JSON(c, http.StatusOK, grid, nil, meta)
}

// Cell godoc
// @Summary Occupancy of one classroom and shift
// @Tags Occupancy
// @Produce json
// @Param classroom_id query string true "Classroom ID"
// @Param shift query string true "Manhã, Tarde or Noite"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /occupancy/cell [get]
func (h *OccupancyHandler) Cell(c *gin.Context) {
	classroomID := strings.TrimSpace(c.Query("classroom_id"))
	if classroomID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classroom_id is required"))
		return
	}
	shift, ok := scheduling.ParseShift(c.Query("shift"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "shift must be Manhã, Tarde or Noite"))
		return
	}
	date, ok := queryDate(c, "date", h.occupancy.Today())
	if !ok {
		return
	}
	cell, err := h.occupancy.Cell(c.Request.Context(), classroomID, shift, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cell, nil)
}

// Export godoc
// @Summary Export occupancy grid
// @Description Renders the grid as CSV or PDF and returns a signed download link
// @Tags Occupancy
// @Accept json
// @Produce json
// @Param payload body ExportRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /occupancy/export [post]
func (h *OccupancyHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "exports are disabled"))
		return
	}
	var req ExportRequest
	if !bindJSON(c, &req) {
		return
	}
	date := h.occupancy.Today()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := scheduling.ParseDate(req.Date)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	format := export.FormatCSV
	if req.Format != "" {
		parsed, err := export.ParseFormat(strings.ToLower(req.Format))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
			return
		}
		format = parsed
	}
	result, err := h.exports.ExportGrid(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported grid
// @Tags Occupancy
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *OccupancyHandler) Download(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "exports are disabled"))
		return
	}
	download, err := h.exports.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	response.Attachment(c, download.Filename, download.ContentType, info.Size(), download.File)
}
