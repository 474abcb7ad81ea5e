// internal/interfaces/http/middleware/request_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionIDFromContext(c))
	})
	return r
}

func TestSessionIDMintedWhenAbsent(t *testing.T) {
	r := sessionRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	minted := w.Header().Get("X-Session-ID")
	assert.NotEmpty(t, minted)
	assert.Equal(t, minted, w.Body.String())
}

func TestSessionIDEchoed(t *testing.T) {
	r := sessionRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-ID", "device-session-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "device-session-1", w.Header().Get("X-Session-ID"))
	assert.Equal(t, "device-session-1", w.Body.String())
}

func TestRequestSizeLimitRejectsLargeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("well over the limit"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
