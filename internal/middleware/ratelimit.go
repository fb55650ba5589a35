package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

// RateLimiterConfig sizes the per client token buckets.
type RateLimiterConfig struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter builds a limiter and starts its idle entry sweeper.
func NewRateLimiter(cfg RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.PerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := &RateLimiter{
		limit:    rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:    cfg.Burst,
		interval: cfg.CleanupInterval,
		logger:   logger,
		clients:  make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the background sweeper.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests over budget with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiterFor(ip).Allow() {
			rl.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.Header("Retry-After", strconv.Itoa(rl.retryAfter()))
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Clients reports how many client buckets are tracked.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cl, ok := rl.clients[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}
	cl := &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst), lastAccess: time.Now()}
	rl.clients[key] = cl
	return cl.limiter
}

func (rl *RateLimiter) retryAfter() int {
	seconds := int(math.Ceil(1.0 / float64(rl.limit)))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// sweep drops buckets idle for more than two cleanup intervals.
func (rl *RateLimiter) sweep(now time.Time) {
	ttl := rl.interval * 2
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.clients {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.clients, key)
		}
	}
}
