package httpmiddleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"VectorConsole/backend/go/pkg/circuitbreaker"
	"VectorConsole/backend/go/pkg/ratelimiter"
)

// KeyFunc identifies the client a request belongs to.
type KeyFunc func(*http.Request) string

// ClientKey identifies a client by a digest of its bearer token, or by remote IP
// when no token is present. The token itself is never used as a map key.
func ClientKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		sum := sha256.Sum256([]byte(strings.TrimPrefix(auth, "Bearer ")))
		return "key:" + hex.EncodeToString(sum[:8])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimit rejects requests with 429 once the client's limiter is exhausted.
func RateLimit(limiter *ratelimiter.Keyed, key KeyFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(key(r)) {
				writeError(w, http.StatusTooManyRequests, "too many requests", "rate_limited", true)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter captures the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// CircuitBreak counts responses >= 500 as failures and answers 503 while the circuit is open.
func CircuitBreak(breaker circuitbreaker.CircuitBreaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			err := breaker.Execute(func() error {
				next.ServeHTTP(rw, r)
				if rw.statusCode >= http.StatusInternalServerError {
					return fmt.Errorf("server error: status code %d", rw.statusCode)
				}
				return nil
			})
			if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
				writeError(w, http.StatusServiceUnavailable, "service unavailable: circuit breaker is open", "transport_error", true)
			}
			// 其他错误已经由 next 写入响应
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg, kind string, retryable bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":     msg,
		"kind":      kind,
		"retryable": retryable,
	})
}
