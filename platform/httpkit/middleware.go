package httpkit

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"mytrip_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// HeaderRequestID carries the request ID in both directions.
	HeaderRequestID = "X-Request-ID"
	// ContextRequestIDKey is the gin context key for the request ID.
	ContextRequestIDKey = "requestID"

	maxRequestIDLength = 128
)

// RequestID assigns every request an ID, reusing a sane inbound header.
// The ID is echoed in the response, stored on the gin context and on the
// request context for logger.WithContext.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		if log != nil {
			SetLogger(c, log.WithRequestID(id))
		}

		c.Next()
	}
}

// RequestIDFrom returns the request ID set by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ContextRequestIDKey)
}

// RequestLogger emits one line per request once the handler chain is done.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		log.WithContext(c.Request.Context()).HTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			float64(time.Since(began).Milliseconds()),
			c.ClientIP(),
		)
	}
}

// SecurityHeaders sets the headers of a JSON-only API. HSTS is only sent
// over TLS.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than limiterIdleTTL are dropped on the next sweep.
type IPRateLimiter struct {
	visitors  sync.Map
	limit     rate.Limit
	burst     int
	log       *logger.Logger
	now       func() time.Time
	lastSweep atomic.Int64
}

// NewIPRateLimiter allows r requests per second per IP with the given burst.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	l := &IPRateLimiter{limit: r, burst: burst, log: log, now: time.Now}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *IPRateLimiter) visitorFor(ip string) *visitor {
	v, ok := l.visitors.Load(ip)
	if !ok {
		v, _ = l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.limit, l.burst)})
	}
	vis := v.(*visitor)
	vis.lastSeen.Store(l.now().UnixNano())
	return vis
}

// sweep drops idle buckets, at most once per limiterIdleTTL.
func (l *IPRateLimiter) sweep() {
	now := l.now().UnixNano()
	last := l.lastSweep.Load()
	if now-last < int64(limiterIdleTTL) || !l.lastSweep.CompareAndSwap(last, now) {
		return
	}
	l.visitors.Range(func(key, value any) bool {
		if now-value.(*visitor).lastSeen.Load() > int64(limiterIdleTTL) {
			l.visitors.Delete(key)
		}
		return true
	})
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	n := 0
	l.visitors.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RateLimit rejects requests over the per-IP budget with 429.
func (l *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		l.sweep()
		ip := c.ClientIP()
		if l.visitorFor(ip).limiter.Allow() {
			c.Next()
			return
		}

		if l.log != nil {
			l.log.RateLimitExceeded(ip, c.Request.URL.Path)
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
			Error:     "rate limit exceeded",
			Code:      "rate_limited",
			RequestID: RequestIDFrom(c),
		})
	}
}
