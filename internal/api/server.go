// Package api provides the local HTTP bridge for jokebox.
// A presentation client drives the engagement engine through it; the
// server only listens on loopback by default and makes no outbound calls
// of its own.
package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/health"
)

// requestTimeout bounds every non-streaming request. A fetch is the
// slowest call and is itself bounded by the source timeout.
const requestTimeout = 30 * time.Second

// Server is the jokebox HTTP API server.
type Server struct {
	engine         *engagement.Engine
	deck           *engagement.Deck
	prefs          *engagement.PreferenceService
	health         *health.Checker
	log            logrus.FieldLogger
	corsOrigins    []string
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *engagement.Engine, deck *engagement.Deck, prefs *engagement.PreferenceService, checker *health.Checker, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		engine: engine,
		deck:   deck,
		prefs:  prefs,
		health: checker,
		log:    log.WithField("component", "api"),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetCORSOrigins sets the origins allowed to call the bridge from a browser.
// "*" allows any origin.
func (s *Server) SetCORSOrigins(origins []string) { s.corsOrigins = origins }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	// Long-lived SSE stream; kept outside the request timeout.
	r.Get("/api/events", s.handleEvents)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/health", s.handleHealth)

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Get("/summary", s.handleSummary)
			r.Get("/achievements", s.handleAchievements)

			r.Post("/jokes/fetch", s.handleFetch)
			r.Post("/jokes/read", s.handleRead)

			r.Get("/favorites", s.handleListFavorites)
			r.Post("/favorites", s.handleAddFavorite)
			r.Delete("/favorites/{id}", s.handleRemoveFavorite)

			r.Get("/deck", s.handleDeck)
			r.Post("/deck/preload", s.handleDeckPreload)
			r.Post("/deck/swipe", s.handleSwipe)

			r.Get("/preferences", s.handleGetPreferences)
			r.Put("/preferences", s.handlePutPreferences)
			r.Put("/preferences/{name}", s.handleSetPreference)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    kind,
		},
	})
}

// requestLogger logs one line per request with its chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Debug("request")
	})
}

// corsMiddleware answers preflight requests and echoes allowed origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(s.corsOrigins, "*") || slices.Contains(s.corsOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
