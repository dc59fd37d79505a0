package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/djelite/matchengine/internal/domain/model"
)

const defaultPageLimit = 10

// MatchesHandler serves ranked matches and cache invalidation.
type MatchesHandler struct {
	matcher  Matcher
	maxLimit int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(matcher Matcher, maxLimit int) *MatchesHandler {
	return &MatchesHandler{matcher: matcher, maxLimit: maxLimit}
}

// HandleCollection handles /matches:
//
//	DELETE /matches  clears the whole match cache
func (h *MatchesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	h.matcher.ClearCache(r.Context(), "")
	w.WriteHeader(http.StatusNoContent)
}

// HandleRequester handles /matches/{requester_id}:
//
//	GET    /matches/{id}?limit=N&genres=a,b&experience_levels=x,y
//	       &collaboration_type=t&max_distance_km=D returns ranked matches
//	DELETE /matches/{id} clears that requester's cached rankings
func (h *MatchesHandler) HandleRequester(w http.ResponseWriter, r *http.Request) {
	requesterID := strings.TrimPrefix(r.URL.Path, "/matches/")
	if requesterID == "" || strings.Contains(requesterID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, requesterID)
	case http.MethodDelete:
		h.matcher.ClearCache(r.Context(), requesterID)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (h *MatchesHandler) handleGet(w http.ResponseWriter, r *http.Request, requesterID string) {
	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		limit = n
	}

	prefs, err := preferencesFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	matches, err := h.matcher.GetOptimalMatches(r.Context(), requesterID, prefs, limit)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func preferencesFromQuery(r *http.Request) (model.Preferences, error) {
	q := r.URL.Query()
	prefs := model.Preferences{
		Genres:            splitList(q.Get("genres")),
		CollaborationType: model.CollaborationType(q.Get("collaboration_type")),
	}

	for _, raw := range splitList(q.Get("experience_levels")) {
		level := model.ExperienceLevel(strings.ToLower(raw))
		if !level.Valid() {
			return model.Preferences{}, ErrBadRequest
		}
		prefs.ExperienceLevels = append(prefs.ExperienceLevels, level)
	}

	if raw := q.Get("max_distance_km"); raw != "" {
		dist, err := strconv.Atoi(raw)
		if err != nil || dist < 0 {
			return model.Preferences{}, ErrBadRequest
		}
		prefs.MaxDistanceKM = &dist
	}

	return prefs, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
