package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ridwanfathin/invoice-dashboard/internal/model"
)

// maxTrackedClients bounds the limiter map between cleanups
const maxTrackedClients = 10000

// RateLimiter throttles requests per client IP
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	interval time.Duration
	rate     rate.Limit
	burst    int
	logger   logrus.FieldLogger
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client with the given burst
func NewRateLimiter(requestsPerMinute, burst int, logger logrus.FieldLogger) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		rate:     rate.Every(interval),
		burst:    burst,
		logger:   logger,
	}
}

// getLimiter returns the rate limiter for a client key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}

	return limiter
}

// Handler returns the rate limiting middleware
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if rl.getLimiter(key).Allow() {
			c.Next()
			return
		}

		rl.logger.WithFields(logrus.Fields{
			"key":    key,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Warn("rate_limit_exceeded")

		retryAfter := int(rl.interval.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
			Status:  "Too Many Requests",
			Message: "Too many sign-in attempts. Please try again later.",
		})
	}
}

// Cleanup drops all limiters once too many clients are tracked
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxTrackedClients {
		rl.limiters = make(map[string]*rate.Limiter)
	}
}

// StartCleanup periodically runs Cleanup until the done channel closes
func (rl *RateLimiter) StartCleanup(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-done:
				return
			}
		}
	}()
}
