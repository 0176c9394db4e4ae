package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/pkg/config"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-Id"

	defaultMaxBodyBytes = 1024 * 1024
	limiterIdleTimeout  = 10 * time.Minute
	limiterSweepEvery   = 5 * time.Minute
)

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (cl *clientLimiter) touch(now time.Time) {
	cl.lastSeen.Store(now.UnixNano())
}

func (cl *clientLimiter) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, cl.lastSeen.Load()))
}

// RateLimiters tracks one limiter per route group and client IP
type RateLimiters struct {
	limiters sync.Map
	stop     chan struct{}
	start    sync.Once
	closed   sync.Once
}

func NewRateLimiters() *RateLimiters {
	return &RateLimiters{stop: make(chan struct{})}
}

// Stop ends the background sweep
func (r *RateLimiters) Stop() {
	r.closed.Do(func() { close(r.stop) })
}

func (r *RateLimiters) get(key string, perMinute, burst int) *clientLimiter {
	if v, ok := r.limiters.Load(key); ok {
		return v.(*clientLimiter)
	}
	cl := &clientLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
	cl.touch(time.Now())
	v, _ := r.limiters.LoadOrStore(key, cl)
	return v.(*clientLimiter)
}

// sweep drops limiters idle for longer than maxIdle
func (r *RateLimiters) sweep(now time.Time, maxIdle time.Duration) int {
	removed := 0
	r.limiters.Range(func(key, value interface{}) bool {
		if value.(*clientLimiter).idleSince(now) > maxIdle {
			r.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (r *RateLimiters) cleanupLoop() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.sweep(now, limiterIdleTimeout)
		case <-r.stop:
			return
		}
	}
}

// CORS builds the cors middleware from the security settings
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  cfg.CORSMethods,
		AllowHeaders:  cfg.CORSHeaders,
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowMethods) == 0 {
		corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(corsCfg.AllowHeaders) == 0 {
		corsCfg.AllowHeaders = []string{"Content-Type", "Authorization"}
	}

	for _, origin := range cfg.CORSOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			break
		}
	}
	if !corsCfg.AllowAllOrigins {
		if len(cfg.CORSOrigins) == 0 {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = cfg.CORSOrigins
			corsCfg.AllowCredentials = true
		}
	}

	return cors.New(corsCfg)
}

// RequestID propagates or assigns an X-Request-Id
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(defaultMaxBodyBytes)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Message: "Request body too large",
					Error:   string(apperrors.ErrCodeValidation),
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// PerClientRateLimit allows perMinute requests per client IP within group
func PerClientRateLimit(limiters *RateLimiters, group string, perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiters.start.Do(func() {
		go limiters.cleanupLoop()
	})

	return func(c *gin.Context) {
		cl := limiters.get(group+"|"+c.ClientIP(), perMinute, burst)
		cl.touch(time.Now())

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Message: "Rate limit exceeded. Please slow down your requests.",
				Error:   string(apperrors.ErrCodeRateLimited),
			})
			return
		}
		c.Next()
	}
}
