// Package ratelimit throttles workspace creation per client IP with a
// rolling-window limiter built on golang.org/x/time/rate.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimit is the number of workspace creations allowed per IP per
// window when no override is configured.
const DefaultLimit = 10

// DefaultWindow is the rolling window a limit applies over.
const DefaultWindow = time.Hour

// Limiter throttles an operation per client IP. Each IP gets its own
// token bucket sized so it starts full and refills continuously at
// limit/window — the standard token-bucket approximation of a fixed
// rolling-window counter.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    int
	window   time.Duration
}

// New returns a Limiter allowing limit operations per window, per IP.
// A non-positive limit falls back to DefaultLimit; a non-positive
// window falls back to DefaultWindow.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		window:   window,
	}
}

// Allow reports whether ip may perform the limited operation now,
// consuming one token if so.
func (l *Limiter) Allow(ip string) bool {
	return l.limiterFor(ip).Allow()
}

func (l *Limiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit)
		l.limiters[ip] = lim
	}
	return lim
}

// TrackedIPs returns the number of distinct IPs currently holding a
// limiter entry. Useful for diagnostics; the map is never pruned since
// the workspace-create load this guards is low-cardinality in practice.
func (l *Limiter) TrackedIPs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// ClientIP resolves the caller's address from a request, preferring
// X-Forwarded-For's first entry, then X-Real-IP, then the peer socket
// address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
