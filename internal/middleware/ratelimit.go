package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/leads-manager/internal/config"
)

// EnrichPath is the route template of the enrichment endpoint.
const EnrichPath = "/api/leads/:id/enrich"

// maxTrackedClients bounds the bucket table; idle buckets are swept once it is reached.
const maxTrackedClients = 4096

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// enrichBuckets hands out one token bucket per client address.
type enrichBuckets struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
	clients map[string]*clientBucket
}

func (b *enrichBuckets) allow(client string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	bucket, ok := b.clients[client]
	if !ok {
		if len(b.clients) >= maxTrackedClients {
			b.sweepLocked(now)
		}
		bucket = &clientBucket{limiter: rate.NewLimiter(b.every, b.burst)}
		b.clients[client] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

func (b *enrichBuckets) sweepLocked(now time.Time) {
	for client, bucket := range b.clients {
		if now.Sub(bucket.lastSeen) > b.idle {
			delete(b.clients, client)
		}
	}
}

// EnrichRateLimiter limits enrichment calls per client address with a token bucket
// of cfg.Requests per cfg.Interval. A zero config disables limiting.
func EnrichRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	buckets := &enrichBuckets{
		every:   rate.Every(perRequest),
		burst:   cfg.Requests,
		idle:    cfg.Interval,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() != EnrichPath {
				return next(c)
			}
			if !buckets.allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"detail": "enrich rate limit exceeded"})
			}
			return next(c)
		}
	}
}
