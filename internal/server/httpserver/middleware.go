package httpserver

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
	"github.com/yndnr/nsremover/pkg/cmap"
)

// RequestIDPrefix prefixes generated request IDs.
const RequestIDPrefix = "req_"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID assigns each request an ID, reusing a client-supplied
// X-Request-ID header when present.
func RequestID() Middleware {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				mu.Lock()
				id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
				mu.Unlock()
				if err == nil {
					requestID = RequestIDPrefix + id.String()
				} else {
					requestID = RequestIDPrefix + "unknown"
				}
			}

			w.Header().Set("X-Request-ID", requestID)
			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// maxTrackedClients caps the number of per-client limiters.
const maxTrackedClients = 4096

// clientIdleTTL is how long a client's limiter survives without requests
// once the table is full.
const clientIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// limiterTable holds one token bucket per client, never more than max.
type limiterTable struct {
	rps   rate.Limit
	burst int
	max   int
	now   func() time.Time

	clients *cmap.Map[*clientLimiter]
	evictMu sync.Mutex
}

func newLimiterTable(rps float64, burst, max int, now func() time.Time) *limiterTable {
	return &limiterTable{
		rps:     rate.Limit(rps),
		burst:   burst,
		max:     max,
		now:     now,
		clients: cmap.New[*clientLimiter](),
	}
}

// limiter returns the bucket for ip, making room for it first when the
// table is full.
func (t *limiterTable) limiter(ip string) *rate.Limiter {
	c, ok := t.clients.Get(ip)
	if !ok {
		t.evictMu.Lock()
		if _, ok := t.clients.Get(ip); !ok && t.clients.Len() >= t.max {
			t.makeRoom()
		}
		c = t.clients.GetOrCreate(ip, func() *clientLimiter {
			return &clientLimiter{limiter: rate.NewLimiter(t.rps, t.burst)}
		})
		t.evictMu.Unlock()
	}
	c.lastSeen.Store(t.now().UnixNano())
	return c.limiter
}

// makeRoom drops idle clients, or the least recently seen one when none
// are idle. Callers hold evictMu.
func (t *limiterTable) makeRoom() {
	cutoff := t.now().Add(-clientIdleTTL).UnixNano()
	removed := t.clients.DeleteFunc(func(_ string, c *clientLimiter) bool {
		return c.lastSeen.Load() < cutoff
	})
	if removed > 0 {
		return
	}

	var oldestIP string
	oldest := int64(math.MaxInt64)
	t.clients.Range(func(ip string, c *clientLimiter) bool {
		if seen := c.lastSeen.Load(); seen < oldest {
			oldest, oldestIP = seen, ip
		}
		return true
	})
	if oldestIP != "" {
		t.clients.Delete(oldestIP)
	}
}

func (t *limiterTable) len() int {
	return t.clients.Len()
}

// RateLimit limits each client to rps requests per second with the given
// burst, using a token bucket per client address as resolved by ip.
func RateLimit(rps float64, burst int, ip *ClientIP) Middleware {
	return rateLimit(newLimiterTable(rps, burst, maxTrackedClients, time.Now), ip)
}

func rateLimit(table *limiterTable, ip *ClientIP) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !table.limiter(ip.Resolve(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				writeMiddlewareError(w, r, http.StatusTooManyRequests, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Audit logs every completed request.
func Audit(log *slog.Logger, ip *ClientIP) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", ip.Resolve(r),
			}

			ctx := r.Context()
			switch {
			case wrapped.statusCode >= 500:
				log.ErrorContext(ctx, "request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.WarnContext(ctx, "request completed with client error", attrs...)
			default:
				log.InfoContext(ctx, "request completed", attrs...)
			}
		})
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
					writeMiddlewareError(w, r, http.StatusInternalServerError, domain.ErrInternal)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// writeMiddlewareError writes an error envelope for requests rejected
// before reaching the handler.
func writeMiddlewareError(w http.ResponseWriter, r *http.Request, status int, err *domain.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", err.Code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":       err.Code,
		"message":    err.Message,
		"request_id": logger.RequestIDFromContext(r.Context()),
		"timestamp":  time.Now().UnixMilli(),
	})
}
