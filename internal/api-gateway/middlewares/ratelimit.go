// Package middlewares contains the gateway's request-gating middleware:
// the fixed-window rate limiter and the bearer-token auth gate. A rejection
// in either terminates the chain; the request is never proxied.
package middlewares

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopmesh/shopmesh/internal/pkg/httpmeta"
)

const (
	DefaultWindow      = 15 * time.Minute
	DefaultMaxRequests = 100

	// Expired windows are swept every sweepEvery admissions so the table
	// does not grow without bound under a churning client population.
	sweepEvery = 1024
)

// window is the live fixed-window counter for one client. A window is
// replaced, never merged, once its reset time has passed.
type window struct {
	count   int
	resetAt time.Time
}

// Decision is the outcome of admitting one request.
type Decision struct {
	Allowed bool
	// RetryAfter is the time until the client's window resets; only
	// meaningful when the request was rejected.
	RetryAfter time.Duration
}

// RateLimiter admits at most maxRequests per client key per fixed window.
// Window reset is lazy: evaluated on the next request, not by a timer, so an
// idle client always gets a fresh window on return regardless of idle time.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	windowMs time.Duration
	max      int
	admitted int

	now func() time.Time // overridable in tests
}

func NewRateLimiter(windowDuration time.Duration, maxRequests int) *RateLimiter {
	return &RateLimiter{
		windows:  make(map[string]*window),
		windowMs: windowDuration,
		max:      maxRequests,
		now:      time.Now,
	}
}

// Admit records one request for the client key and decides whether it may
// proceed. Rejections do not increment the counter.
func (l *RateLimiter) Admit(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	l.admitted++
	if l.admitted%sweepEvery == 0 {
		l.sweepLocked(now)
	}

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.windowMs)}
		return Decision{Allowed: true}
	}

	if w.count >= l.max {
		return Decision{Allowed: false, RetryAfter: w.resetAt.Sub(now)}
	}

	w.count++
	return Decision{Allowed: true}
}

// sweepLocked drops expired windows. Callers hold l.mu.
func (l *RateLimiter) sweepLocked(now time.Time) {
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// Handler gates every request through the limiter, answering 429 with a
// Retry-After header when the client is over its cap.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := l.Admit(httpmeta.ClientKey(r))
		if !decision.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": msg,
	})
}
