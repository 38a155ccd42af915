// Package ratelimit protects the login surface with in-memory sliding
// windows. Limits are per process; a multi-instance deployment multiplies
// them by the instance count, which is acceptable for this purpose.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in a sliding window. Safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow reports whether a request under key fits in the current window
// and records it if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for a key, e.g. after a successful login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP, honoring X-Forwarded-For and X-Real-IP
// before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter rate-limits authentication attempts on two axes: per
// source IP (distributed guessing) and per identity (targeted guessing of
// one account's password, OTP, or wallet nonce).
type LoginLimiter struct {
	ipLimiter       *Limiter
	identityLimiter *Limiter
}

// NewLoginLimiter returns a limiter with the default login protection:
// 10 attempts per IP per minute, 5 per identity per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		ipLimiter:       New(10, time.Minute),
		identityLimiter: New(5, 5*time.Minute),
	}
}

// Check records an attempt and reports whether it may proceed. identity
// is the email or wallet address being targeted, lowercased for keying;
// empty identities only count against the IP.
func (ll *LoginLimiter) Check(r *http.Request, identity string) bool {
	if !ll.ipLimiter.Allow(ClientIP(r)) {
		return false
	}
	if identity != "" {
		if !ll.identityLimiter.Allow(strings.ToLower(strings.TrimSpace(identity))) {
			return false
		}
	}
	return true
}

// ResetIdentity clears the per-identity window after a successful login.
func (ll *LoginLimiter) ResetIdentity(identity string) {
	if identity != "" {
		ll.identityLimiter.Reset(strings.ToLower(strings.TrimSpace(identity)))
	}
}
