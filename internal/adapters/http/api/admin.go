package api

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/okian/handicap/pkg/metrics"
)

// AdminPINHeader carries the shared admin secret.
const AdminPINHeader = "X-Admin-PIN"

// PINVerifier checks the shared admin PIN against a bcrypt hash.
type PINVerifier struct {
	hash []byte
}

// NewPINVerifier prefers hash when set and otherwise hashes pin. With
// neither, it returns nil and admin routes answer 403.
func NewPINVerifier(pin, hash string) (*PINVerifier, error) {
	switch {
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin_pin_hash: %w", err)
		}
		return &PINVerifier{hash: []byte(hash)}, nil
	case pin != "":
		h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin pin: %w", err)
		}
		return &PINVerifier{hash: h}, nil
	default:
		return nil, nil
	}
}

// Verify reports whether pin matches.
func (v *PINVerifier) Verify(pin string) bool {
	if v == nil || pin == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(pin)) == nil
}

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle IP entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP and prunes idle
// entries inline.
type IPRateLimiter struct {
	ips map[string]*ipEntry
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		ips: make(map[string]*ipEntry),
		r:   rate.Every(time.Minute / time.Duration(perMinute)),
		b:   burst,
	}
}

// GetLimiter returns the limiter for ip.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.ips) > cleanupThreshold {
		cutoff := time.Now().Add(-maxIdleAge)
		for k, e := range i.ips {
			if e.lastSeen.Before(cutoff) {
				delete(i.ips, k)
			}
		}
	}

	e, exists := i.ips[ip]
	if !exists {
		e = &ipEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = e
	}
	e.lastSeen = time.Now()

	return e.limiter
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// AdminMiddleware requires a valid PIN. Every request counts against the
// client IP's limit before the PIN is checked.
func AdminMiddleware(verifier *PINVerifier, limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				metrics.RecordAdminAuthFailure("disabled")
				writeError(w, http.StatusForbidden, "admin_disabled", ErrAdminDisabled)
				return
			}
			if limiter != nil && !limiter.GetLimiter(clientIP(r)).Allow() {
				metrics.RecordAdminAuthFailure("rate_limited")
				writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
				return
			}
			pin := r.Header.Get(AdminPINHeader)
			if pin == "" {
				metrics.RecordAdminAuthFailure("missing_pin")
				writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
				return
			}
			if !verifier.Verify(pin) {
				metrics.RecordAdminAuthFailure("bad_pin")
				writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
