// Package api provides the analysis API server.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/subtextlab/subtext/internal/analysis"
	"github.com/subtextlab/subtext/internal/auth"
	"github.com/subtextlab/subtext/internal/database"
)

// Server is the API server.
type Server struct {
	pipeline     *analysis.Pipeline
	db           *database.DB
	authVerifier *auth.Verifier
	limiter      *clientLimiter
	mux          *http.ServeMux
}

// Config holds API server configuration. DB and AuthVerifier are optional:
// without a DB analyses are not persisted, and without a verifier the API
// runs open.
type Config struct {
	DB             *database.DB
	AuthVerifier   *auth.Verifier
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 20
	}

	s := &Server{
		pipeline:     analysis.NewPipeline(),
		db:           cfg.DB,
		authVerifier: cfg.AuthVerifier,
		limiter:      newClientLimiter(rps, burst),
		mux:          http.NewServeMux(),
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// Public endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Protected endpoints
	s.mux.HandleFunc("POST /api/analyses", s.protected(s.handleCreateAnalysis))
	s.mux.HandleFunc("GET /api/analyses", s.protected(s.handleListAnalyses))
	s.mux.HandleFunc("GET /api/analyses/{analysisID}", s.protected(s.handleGetAnalysis))
}

// protected wraps a handler with rate limiting and, when a verifier is
// configured, JWT authentication.
func (s *Server) protected(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.limiter.middleware(handler)
	if s.authVerifier != nil {
		middleware := auth.Middleware(s.authVerifier)
		return func(w http.ResponseWriter, r *http.Request) {
			middleware(wrapped).ServeHTTP(w, r)
		}
	}
	return wrapped.ServeHTTP
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.mux.ServeHTTP(w, r)
}

// Close releases resources.
func (s *Server) Close() {
	if s.authVerifier != nil {
		s.authVerifier.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
