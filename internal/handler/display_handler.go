package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/service"
	"github.com/noah-isme/ensalamento-api/pkg/response"
)

type displayService interface {
	Live(ctx context.Context, now time.Time) (*service.LiveFeed, error)
}

// DisplayHandler feeds the public corridor display.
type DisplayHandler struct {
	display displayService
	now     func() time.Time
}

// NewDisplayHandler constructs DisplayHandler.
func NewDisplayHandler(display displayService) *DisplayHandler {
	return &DisplayHandler{display: display, now: time.Now}
}

// Live godoc
// @Summary Live display feed
// @Description Class groups in session for the current shift and the active announcements
// @Tags Display
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /display/live [get]
func (h *DisplayHandler) Live(c *gin.Context) {
	feed, err := h.display.Live(c.Request.Context(), h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed, nil)
}
