// Package api declares HTTP contracts and route registration helpers for
// the matching engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/djelite/matchengine/internal/app"
	"github.com/djelite/matchengine/internal/domain/model"
)

// Matcher is the engine surface the handlers depend on. Keeping it an
// interface keeps the handler layer loosely coupled to internal/app.
type Matcher interface {
	GetOptimalMatches(ctx context.Context, requesterID string, prefs model.Preferences, limit int) ([]model.Match, error)
	ClearCache(ctx context.Context, requesterID string)
}

// StatsProvider exposes engine statistics for monitoring.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// Server wires HTTP routes for the matching API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchesHandler *MatchesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(matcher Matcher, stats StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(stats),
		matchesHandler: NewMatchesHandler(matcher, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleCollection, "matches"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchesHandler.HandleRequester, "matches"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func isNotFound(err error) bool {
	return errors.Is(err, app.ErrRequesterNotFound)
}
