package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type window struct {
	count int
	reset time.Time
}

// RateLimitOptions tunes the limiter. Clock is injectable for tests.
type RateLimitOptions struct {
	Clock func() time.Time
}

// RateLimit applies a fixed window of `limit` requests per `per` for each
// client IP. Exceeding it answers 429 with a Retry-After hint.
func RateLimit(limit int, per time.Duration, opts RateLimitOptions) func(http.Handler) http.Handler {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	var mu sync.Mutex
	windows := make(map[string]*window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			mu.Lock()
			win, ok := windows[ip]
			t := now()
			if !ok || t.After(win.reset) {
				win = &window{reset: t.Add(per)}
				windows[ip] = win
			}
			if win.count >= limit {
				retry := win.reset.Sub(t)
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			win.count++
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP picks the first valid X-Forwarded-For address, falling back to
// the connection's remote host.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			ip := strings.TrimSpace(part)
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
