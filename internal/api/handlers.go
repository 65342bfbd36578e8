package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tutu-network/jokebox/internal/domain"
)

// ─── State & Stats ──────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := s.health.RunOnce(r.Context())
	status, code := "ok", http.StatusOK
	for _, st := range statuses {
		if !st.Healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": statuses,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Summary())
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"achievements": s.engine.Achievements(),
	})
}

// ─── Jokes ──────────────────────────────────────────────────────────────────

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	joke, err := s.engine.FetchAndRecordJoke(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"joke":        joke,
		"is_favorite": s.engine.IsFavorite(joke.ID),
	})
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	res := s.engine.RecordRead()
	res.Unlocked = nonNil(res.Unlocked)
	writeJSON(w, http.StatusOK, res)
}

// writeFetchError maps fetch failures onto gateway statuses: the bridge
// is fine, the joke endpoint is not.
func writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDecode):
		writeError(w, http.StatusBadGateway, "decode", err.Error())
	case errors.Is(err, domain.ErrNetwork):
		writeError(w, http.StatusBadGateway, "network", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "error", err.Error())
	}
}

// ─── Favorites ──────────────────────────────────────────────────────────────

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"favorites": s.engine.Snapshot().FavoriteJokes,
	})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var joke domain.Joke
	if err := json.NewDecoder(r.Body).Decode(&joke); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if joke.Setup == "" || joke.Punchline == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "joke needs a setup and a punchline")
		return
	}

	added, unlocked := s.engine.AddFavorite(joke)
	code := http.StatusOK
	if added {
		code = http.StatusCreated
	}
	writeJSON(w, code, map[string]any{
		"added":    added,
		"unlocked": nonNil(unlocked),
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "joke id must be an integer")
		return
	}
	if !s.engine.RemoveFavorite(id) {
		writeError(w, http.StatusNotFound, "not_found", "joke is not a favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Swipe Deck ─────────────────────────────────────────────────────────────

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cards": s.deck.Cards(),
	})
}

func (s *Server) handleDeckPreload(w http.ResponseWriter, r *http.Request) {
	err := s.deck.Preload(r.Context())
	cards := s.deck.Cards()
	if err != nil && len(cards) == 0 {
		writeFetchError(w, err)
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("deck preload incomplete")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cards": cards,
	})
}

type swipeRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	dir, ok := domain.ParseSwipeDirection(req.Direction)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "direction must be left or right")
		return
	}

	res, err := s.deck.Swipe(r.Context(), dir)
	if errors.Is(err, domain.ErrDeckEmpty) {
		writeError(w, http.StatusConflict, "deck_empty", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error", err.Error())
		return
	}
	res.Unlocked = nonNil(res.Unlocked)
	writeJSON(w, http.StatusOK, res)
}

// ─── Preferences ────────────────────────────────────────────────────────────

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Load())
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := s.prefs.Save(prefs); err != nil {
		if errors.Is(err, domain.ErrInvalidPreference) {
			writeError(w, http.StatusBadRequest, "invalid_preference", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.prefs.Load())
}

type setPreferenceRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	var req setPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	prefs, err := s.prefs.Set(chi.URLParam(r, "name"), req.Value)
	if errors.Is(err, domain.ErrInvalidPreference) {
		writeError(w, http.StatusBadRequest, "invalid_preference", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func nonNil(list []domain.Achievement) []domain.Achievement {
	if list == nil {
		return []domain.Achievement{}
	}
	return list
}
