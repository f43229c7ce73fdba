package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmhodges/clock"
	"golang.org/x/time/rate"
)

const staleAfter = 3 * time.Minute

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	clk     clock.Clock
}

func NewRateLimiter(rps float64, burst int, clk clock.Clock) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		clk:     clk,
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.clk.Now()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{lim: rate.NewLimiter(rl.r, rl.burst)}
		rl.clients[ip] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

// Cleanup drops clients not seen for a few minutes.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.clk.Now()
	for ip, c := range rl.clients {
		if now.Sub(c.seen) > staleAfter {
			delete(rl.clients, ip)
		}
	}
}

// Clients returns the number of tracked client IPs.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
