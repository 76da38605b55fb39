package fakebackend

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/househunt/househunt-go/internal/crypto"
	"golang.org/x/time/rate"
)

type contextKey string

const userIDKey contextKey = "userID"

// bearerAuth rejects requests without a valid token, the way every
// authenticated backend function does.
func (b *Backend) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
			return
		}

		claims, err := crypto.ValidateToken(token, b.opts.Secret)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// injectFailures answers a queued FailNext status instead of the route, and
// applies the configured latency.
func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.opts.Latency != nil {
			if d := b.opts.Latency(r); d > 0 {
				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}
		}

		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		status, ok := b.failures[route]
		delete(b.failures, route)
		b.mu.Unlock()

		if ok {
			writeJSON(w, status, errorResponse(http.StatusText(status)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs every request through slog at debug level, in chi's
// default line format.
func requestLogger() func(http.Handler) http.Handler {
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug),
		NoColor: true,
	})
}

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (rl *ipRateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.visitors[ip]
	if !ok {
		l = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = l
	}
	return l
}

// rateLimit enforces the geocoding provider's per-client request rate.
func (b *Backend) rateLimit(rps float64) func(http.Handler) http.Handler {
	rl := &ipRateLimiter{visitors: make(map[string]*rate.Limiter), rps: rate.Limit(rps), burst: 1}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !rl.get(ip).Allow() {
				b.mu.Lock()
				b.rejected++
				b.mu.Unlock()
				writeJSON(w, http.StatusTooManyRequests, errorResponse("too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
