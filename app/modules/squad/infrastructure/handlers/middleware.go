package squadhandlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle client entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimits holds the request budgets of the squad API. Read applies per
// client to every route; Preview applies per client and squad to transfer
// previews on top of it.
type RateLimits struct {
	Read         rate.Limit
	ReadBurst    int
	Preview      rate.Limit
	PreviewBurst int
}

// RateLimitKey derives the bucket a request is charged to.
type RateLimitKey func(*http.Request) string

// ClientRateLimiter keeps one token bucket per key and prunes idle keys
// inline.
type ClientRateLimiter struct {
	clients map[string]*clientEntry
	mu      sync.Mutex
	r       rate.Limit
	b       int
	now     func() time.Time
}

// NewClientRateLimiter creates a limiter allowing r requests per second with burst b.
func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients: make(map[string]*clientEntry),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

// Limiter returns the limiter for key, pruning stale entries when the map
// exceeds cleanupThreshold.
func (c *ClientRateLimiter) Limiter(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.clients) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range c.clients {
			if e.lastSeen.Before(cutoff) {
				delete(c.clients, k)
			}
		}
	}

	e, ok := c.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(c.r, c.b)}
		c.clients[key] = e
	}
	e.lastSeen = now

	return e.limiter
}

func (c *ClientRateLimiter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// ClientKey charges a request to its client IP.
func ClientKey(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SquadClientKey charges a request to its client IP and the squad in the path.
func SquadClientKey(r *http.Request) string {
	return ClientKey(r) + "|" + chi.URLParam(r, "squadID")
}

// RateLimitMiddleware rejects requests over the limit of their key with 429.
func RateLimitMiddleware(limiter *ClientRateLimiter, key RateLimitKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Limiter(key(r)).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
