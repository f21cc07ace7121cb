package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(allowed []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.GET("/display/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(method, "/display/live", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAllowedOrigin(t *testing.T) {
	rec := serve([]string{"https://painel.escola.br/"}, http.MethodGet, "https://painel.escola.br")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://painel.escola.br", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRejectedOrigin(t *testing.T) {
	rec := serve([]string{"https://painel.escola.br"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	rec := serve(nil, http.MethodOptions, "https://tv.escola.br")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://tv.escola.br", rec.Header().Get("Access-Control-Allow-Origin"))
}
