package ginx

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig allows Requests per Window for each client IP, refilled
// evenly across the window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(cfg RateLimitConfig, now func() time.Time) *ipLimiter {
	return &ipLimiter{
		cfg:       cfg,
		visitors:  map[string]*visitor{},
		lastSweep: now(),
		now:       now,
	}
}

// reserve reports whether ip may proceed, and otherwise how long to wait.
func (l *ipLimiter) reserve(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.cfg.Window {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.cfg.Window {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		every := l.cfg.Window / time.Duration(l.cfg.Requests)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), l.cfg.Requests)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// RateLimit rejects clients that exceed cfg with 429. A non-positive
// Requests or Window disables the limit.
func RateLimit(cfg RateLimitConfig, log logger.ZapLogger) gin.HandlerFunc {
	return rateLimit(cfg, log, time.Now)
}

func rateLimit(cfg RateLimitConfig, log logger.ZapLogger, now func() time.Time) gin.HandlerFunc {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newIPLimiter(cfg, now)
	return func(c *gin.Context) {
		ok, wait := l.reserve(c.ClientIP())
		c.Header("RateLimit-Limit", strconv.Itoa(cfg.Requests))
		if !ok {
			log.Warn("rate limit exceeded", zap.String("client_ip", c.ClientIP()), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			Error(c, log, apperror.RateLimited("Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
