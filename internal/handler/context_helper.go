package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/middleware"
	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
	"github.com/noah-isme/ensalamento-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// paging reads page and limit query parameters.
func paging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		size = 20
	}
	return page, size
}

// bindJSON decodes the request body and writes a 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// queryDate parses an optional date query parameter, defaulting to fallback.
func queryDate(c *gin.Context, name string, fallback scheduling.Date) (scheduling.Date, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	date, err := scheduling.ParseDate(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be YYYY-MM-DD"))
		return scheduling.Date{}, false
	}
	return date, true
}
