// Package ratelimit throttles chat requests per authenticated user.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/MrJamesThe3rd/finbot/internal/http/auth"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands every user their own token bucket. Create one per process and share it
// between the routes it guards.
type Limiter struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*visitor
	limit    rate.Limit
	burst    int
	retry    int // Seconds until one request is refilled
	now      func() time.Time
}

// New allows perMinute requests per user per minute, with bursts of up to burst requests.
func New(perMinute, burst int) *Limiter {
	perMinute = max(perMinute, 1)

	return &Limiter{
		visitors: make(map[uuid.UUID]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    max(burst, 1),
		retry:    (60 + perMinute - 1) / perMinute,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	v, ok := l.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[userID] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// Prune forgets users not seen for idle. Returns how many were removed.
func (l *Limiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0

	for id, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, id)
			removed++
		}
	}

	return removed
}

// Run prunes idle users every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune(interval)
		}
	}
}

// Middleware must run after auth.Verifier.Middleware.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.UserID(r.Context())
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if !l.Allow(userID) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retry))
			http.Error(w, "too many requests", http.StatusTooManyRequests)

			return
		}

		next.ServeHTTP(w, r)
	})
}
