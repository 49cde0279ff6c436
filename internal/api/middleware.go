package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
)

// CorrelationIDHeader carries the request correlation id in both directions.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationIDKey = "correlation_id"

// CorrelationID reuses the caller's X-Correlation-ID or generates one, echoes
// it on the response and stores it in the request context for loggers.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithCorrelationID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs every completed request and counts it by route.
func RequestLogger(l *zap.Logger) gin.HandlerFunc {
	log := logger.Named(l, logger.ComponentAPI)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		observability.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status))

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", ClientIP(c.Request)),
			zap.Int("body_size", c.Writer.Size()),
		}
		reqLog := logger.FromContext(c.Request.Context(), log)
		switch {
		case status >= http.StatusInternalServerError:
			reqLog.Error("Request completed", fields...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("Request completed", fields...)
		default:
			reqLog.Info("Request completed", fields...)
		}
	}
}

// Throttle is a per-IP token bucket guarding the HTTP surface. It is
// independent of the token creation windows.
type Throttle struct {
	rps   rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*throttleEntry
	lastSweep time.Time
}

type throttleEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewThrottle returns a throttle allowing rps requests per second per IP with
// the given burst.
func NewThrottle(rps float64, burst int) *Throttle {
	return &Throttle{
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
		limiters: make(map[string]*throttleEntry),
	}
}

// Allow reports whether a request from ip may proceed.
func (t *Throttle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) > t.idle {
		for key, e := range t.limiters {
			if now.Sub(e.lastAccess) > t.idle {
				delete(t.limiters, key)
			}
		}
		t.lastSweep = now
	}

	e, ok := t.limiters[ip]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.rps, t.burst)}
		t.limiters[ip] = e
	}
	e.lastAccess = now
	return e.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the per-IP budget with 429.
// Health and metrics probes are never throttled.
func (t *Throttle) Middleware(l *zap.Logger) gin.HandlerFunc {
	log := logger.Named(l, logger.ComponentAPI)
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/health", "/metrics":
			c.Next()
			return
		}

		ip := ClientIP(c.Request)
		if !t.Allow(ip) {
			observability.RecordHTTPThrottled()
			logger.FromContext(c.Request.Context(), log).Warn("Request throttled",
				zap.String("client_ip", ip),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       "Too many requests. Please try again later.",
				"retry_after": 1,
			})
			return
		}
		c.Next()
	}
}
