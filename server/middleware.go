package server

import (
	"net"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// requestIDMiddleware attaches a request ID to the response header and the
// debug log line for the request
func (s *CorpusServer) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		s.logger.Debugw("Request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)
	}
}

// rateLimitMiddleware enforces a per-client-IP token bucket on API routes.
// Limits come from config and are retuned live on config reload.
func (s *CorpusServer) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiterFor(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

// corsMiddleware adds permissive CORS headers and answers preflight
// requests. The daemon binds to localhost by default; cross-origin access
// is a deliberate convenience, not an auth boundary.
func (s *CorpusServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// limiterFor returns the token bucket for a client IP, creating it on
// first sight with the currently configured rate
func (s *CorpusServer) limiterFor(ip string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	if limiter, ok := s.limiters[ip]; ok {
		return limiter
	}

	cfg := s.currentConfig()
	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)
	s.limiters[ip] = limiter
	return limiter
}

// clientIP extracts the client address without the port. Falls back to the
// raw RemoteAddr for non host:port forms (httptest, unix sockets).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
