package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barbershop-site/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireAdminRedirectsAnonymous(t *testing.T) {
	r := gin.New()
	r.Use(session.NewManager("secret", time.Hour, false).Middleware())
	r.GET("/admin/dashboard", RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret stuff")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "secret stuff")

	var flash bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.FlashCookieName && ck.Value != "" {
			flash = true
		}
	}
	assert.True(t, flash)
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"status":200`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://shop.example.com"}))
	r.GET("/api/barbers", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/barbers", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/barbers", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	hit := func(rl *RateLimiter) int {
		r := gin.New()
		r.POST("/booking", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/booking", nil))
		return w.Code
	}

	var disabled *RateLimiter
	assert.Equal(t, http.StatusOK, hit(disabled))

	unreachable := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = unreachable.Close() })
	assert.Equal(t, http.StatusOK, hit(NewRateLimiter(unreachable, 1, time.Minute, "test", nil)))
}
