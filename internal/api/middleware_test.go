package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"solana-launchpad/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorrelationID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.CorrelationID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

		id := w.Header().Get(CorrelationIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, seen)
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(CorrelationIDHeader, "corr-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "corr-123", w.Header().Get(CorrelationIDHeader))
		assert.Equal(t, "corr-123", seen)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(CorrelationID(), RequestLogger(zap.New(core)))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest("GET", "/items/42", nil)
	req.Header.Set(CorrelationIDHeader, "corr-log")
	req.Header.Set("X-Real-IP", "192.0.2.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("Request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "/items/42", fields["path"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "192.0.2.1", fields["client_ip"])
	assert.Equal(t, "corr-log", fields["correlation_id"])
	assert.Equal(t, logger.ComponentAPI, fields["component"])
}

func TestThrottle_Allow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle(1, 2)
	th.now = func() time.Time { return now }

	assert.True(t, th.Allow("a"))
	assert.True(t, th.Allow("a"))
	assert.False(t, th.Allow("a"), "burst exhausted")
	assert.True(t, th.Allow("b"), "buckets are per IP")

	now = now.Add(time.Second)
	assert.True(t, th.Allow("a"), "one token refilled")
	assert.False(t, th.Allow("a"))
}

func TestThrottle_SweepsIdleEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle(1, 1)
	th.now = func() time.Time { return now }

	th.Allow("idle")
	now = now.Add(11 * time.Minute)
	th.Allow("fresh")

	th.mu.Lock()
	defer th.mu.Unlock()
	assert.NotContains(t, th.limiters, "idle")
	assert.Contains(t, th.limiters, "fresh")
}

func TestThrottle_Middleware(t *testing.T) {
	th := NewThrottle(0.001, 1)
	r := gin.New()
	r.Use(th.Middleware(zap.NewNop()))
	r.GET("/api/tokens", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.50")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("/api/tokens").Code)

	w := do("/api/tokens")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("/health").Code, "health is never throttled")
	}
}
