// internal/middleware/rate_limit.go
package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/perfume-storefront/internal/utils"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	clients map[string]*client
	mtx     sync.Mutex
	rate    rate.Limit
	burst   int
	idle    time.Duration
	stop    chan struct{}
	once    sync.Once
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		rate:    r,
		burst:   b,
		idle:    3 * time.Minute,
		stop:    make(chan struct{}),
	}

	go rl.cleanupClients()

	return rl
}

func (rl *RateLimiter) cleanupClients() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mtx.Lock()
			for key, cl := range rl.clients {
				if time.Since(cl.lastSeen) > rl.idle {
					delete(rl.clients, key)
				}
			}
			rl.mtx.Unlock()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	cl, exists := rl.clients[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.clients[key] = &client{limiter, time.Now()}
		return limiter
	}

	cl.lastSeen = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			utils.TooManyRequestsResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// PerSecond builds a limiter allowing n requests per second.
func PerSecond(n, burst int) *RateLimiter {
	return NewRateLimiter(rate.Limit(n), burst)
}

// PerMinute builds a limiter allowing n requests per minute, e.g. for login.
func PerMinute(n, burst int) *RateLimiter {
	return NewRateLimiter(rate.Every(time.Minute/time.Duration(max(n, 1))), burst)
}
