package server

import (
	"net/http"
)

// routes builds the HTTP handler tree. Method+pattern routing; the exact
// filter-by-natural-language path takes precedence over the {value}
// wildcard, so both are reachable.
func (s *CorpusServer) routes() http.Handler {
	mux := http.NewServeMux()

	// String record API (rate limited)
	mux.HandleFunc("POST /api/strings", s.api(s.HandleCreateString))
	mux.HandleFunc("GET /api/strings", s.api(s.HandleListStrings))
	mux.HandleFunc("GET /api/strings/filter-by-natural-language", s.api(s.HandleNaturalLanguageQuery))
	mux.HandleFunc("GET /api/strings/{value}", s.api(s.HandleGetString))
	mux.HandleFunc("DELETE /api/strings/{value}", s.api(s.HandleDeleteString))

	// Introspection (rate limited with the rest of /api/)
	mux.HandleFunc("GET /api/status", s.api(s.HandleStatus))
	mux.HandleFunc("GET /api/config", s.api(s.HandleConfig))

	// Liveness and event feed bypass the limiter. The feed must be
	// method-scoped: an all-methods "/ws" pattern conflicts with the
	// OPTIONS catch-all below and ServeMux panics at registration.
	mux.HandleFunc("GET /health", s.public(s.HandleHealth))
	mux.HandleFunc("GET /ws", s.public(s.HandleWebSocket))

	// CORS preflight for any API path
	mux.HandleFunc("OPTIONS /", s.public(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	return mux
}

// api wraps a handler with the full middleware chain for rate-limited
// API routes
func (s *CorpusServer) api(next http.HandlerFunc) http.HandlerFunc {
	return s.corsMiddleware(s.requestIDMiddleware(s.rateLimitMiddleware(next)))
}

// public wraps a handler with CORS and request-ID only
func (s *CorpusServer) public(next http.HandlerFunc) http.HandlerFunc {
	return s.corsMiddleware(s.requestIDMiddleware(next))
}
