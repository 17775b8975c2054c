// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit throttles repeated requests with a fixed-window
// counter per key. The login endpoint uses it to slow down credential
// guessing, tracking both the client IP and the targeted username.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key within a window. Safe for
// concurrent use. Expired windows are pruned lazily on access, so no
// background goroutine is needed.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

func New(limit int, span time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
}

// Allow reports whether a request for key fits in the current window
// and counts it when it does.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.span)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for key, forgiving past attempts after a
// successful authentication.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// prune drops expired windows. Called under l.mu.
func (l *Limiter) prune(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for key, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, key)
		}
	}
}

// LoginGuard combines an IP limiter and a username limiter so neither
// a single machine nor a targeted account can be hammered.
type LoginGuard struct {
	ip   *Limiter
	user *Limiter
}

// NewLoginGuard uses the default budget: 10 attempts per IP per
// minute and 5 attempts per username per 5 minutes.
func NewLoginGuard() *LoginGuard {
	return &LoginGuard{
		ip:   New(10, time.Minute),
		user: New(5, 5*time.Minute),
	}
}

// Allow counts one login attempt against both dimensions.
func (g *LoginGuard) Allow(ip, username string) bool {
	ipOK := g.ip.Allow(ip)
	userOK := g.user.Allow(username)
	return ipOK && userOK
}

// Reset forgives both dimensions after a successful login.
func (g *LoginGuard) Reset(ip, username string) {
	g.ip.Reset(ip)
	g.user.Reset(username)
}

// ClientIP extracts the client address from a request, honoring the
// forwarding headers set by reverse proxies before falling back to
// RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
