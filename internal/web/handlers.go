package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quantumbetlab/web/internal/config"
	"quantumbetlab/web/internal/models"
	"quantumbetlab/web/internal/picks"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Source fetches matches and predictions on demand
type Source interface {
	Matches(ctx context.Context, sport models.Sport) (picks.MatchResult, error)
	Prediction(ctx context.Context, match models.Match) picks.PredictionResult
}

var _ Source = (*picks.Source)(nil)

// History reads archived boards, newest first
type History interface {
	ListRecent(ctx context.Context, limit int) ([]*models.Snapshot, error)
}

// HealthCheck reports whether an optional backend is reachable
type HealthCheck func(ctx context.Context) error

// BackendStats reports point-in-time counters for a backend, such as pool usage
type BackendStats func() map[string]interface{}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	cfg     *config.Config
	source  Source
	board   *picks.Board
	history History
	checks  map[string]HealthCheck
	stats   map[string]BackendStats
	render  *renderer
	started time.Time
}

// NewHandler creates a new handler with dependencies
func NewHandler(cfg *config.Config, source Source, board *picks.Board) (*Handler, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:     cfg,
		source:  source,
		board:   board,
		checks:  make(map[string]HealthCheck),
		stats:   make(map[string]BackendStats),
		render:  r,
		started: time.Now(),
	}, nil
}

// WithHistory enables the archived board endpoint
func (h *Handler) WithHistory(history History) *Handler {
	h.history = history
	return h
}

// WithHealthCheck adds a named backend to the health report
func (h *Handler) WithHealthCheck(name string, check HealthCheck) *Handler {
	h.checks[name] = check
	return h
}

// WithBackendStats adds a backend's counters to the health report
func (h *Handler) WithBackendStats(name string, stats BackendStats) *Handler {
	h.stats[name] = stats
	return h
}

// Home renders today's matches or the ranked picks board, depending on HOME_MODE
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if h.cfg.HomeMode == config.HomeModeMatches {
		h.homeMatches(w, r)
		return
	}
	h.homePicks(w, r)
}

func (h *Handler) homeMatches(w http.ResponseWriter, r *http.Request) {
	loc := h.cfg.Location()
	var page matchesPage

	for _, sport := range models.Sports {
		res, err := h.source.Matches(r.Context(), sport)
		if err != nil {
			log.Error().Err(err).Str("sport", string(sport)).Msg("Malformed match data")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		for _, m := range res.Matches {
			page.Matches = append(page.Matches, newMatchView(m, loc))
		}
	}

	h.render.page(w, pageMatches, page)
}

func (h *Handler) homePicks(w http.ResponseWriter, r *http.Request) {
	var page picksPage
	if snap := h.board.Load(); snap != nil {
		page.Picks = snap.Picks
		page.RefreshedAt = snap.RefreshedAt.In(h.cfg.Location()).Format("Jan 2 15:04 MST")
	}
	h.render.page(w, pagePicks, page)
}

// PredictPage renders every prop of one match's prediction
func (h *Handler) PredictPage(w http.ResponseWriter, r *http.Request) {
	sport, err := models.ParseSport(chi.URLParam(r, "sport"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	match := models.Match{
		Sport:   sport,
		EventID: models.EventID(pathParam(r, "eventID")),
		Home:    pathParam(r, "home"),
		Away:    pathParam(r, "away"),
	}

	page := predictPage{Home: match.Home, Away: match.Away}
	if res := h.source.Prediction(r.Context(), match); res.Status() == picks.StatusOK {
		page.Props = res.Payload.PlayerProps
	}

	h.render.page(w, pagePredict, page)
}

// PredictJSON returns the raw prediction for a match, or {} if the upstream
// call failed
func (h *Handler) PredictJSON(w http.ResponseWriter, r *http.Request) {
	sport, err := models.ParseSport(chi.URLParam(r, "sport"))
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown sport", err)
		return
	}

	match := models.Match{
		Sport:   sport,
		EventID: models.EventID(pathParam(r, "eventID")),
	}

	res := h.source.Prediction(r.Context(), match)
	if res.Status() == picks.StatusUnavailable || res.Payload == nil {
		respondJSON(w, http.StatusOK, struct{}{})
		return
	}
	respondJSON(w, http.StatusOK, res.Payload)
}

// PredictFragment serves the AJAX prediction widget: the value-bet picks of
// one match rendered as an HTML fragment
// Query params: sport, id, league, home, away
func (h *Handler) PredictFragment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sport, err := models.ParseSport(q.Get("sport"))
	if err != nil || q.Get("id") == "" {
		respondJSON(w, http.StatusBadRequest, fragmentResponse{Error: true})
		return
	}

	match := models.Match{
		Sport:   sport,
		EventID: models.EventID(q.Get("id")),
		League:  q.Get("league"),
		Home:    q.Get("home"),
		Away:    q.Get("away"),
	}

	res := h.source.Prediction(r.Context(), match)
	if res.Status() == picks.StatusUnavailable {
		respondJSON(w, http.StatusOK, fragmentResponse{Error: true})
		return
	}

	html, err := h.render.fragmentHTML(fragmentView{
		EventID: match.EventID.String(),
		Picks:   picks.Rank(picks.Extract(res.Payload, match)),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to render prediction fragment")
		respondJSON(w, http.StatusInternalServerError, fragmentResponse{Error: true})
		return
	}

	respondJSON(w, http.StatusOK, fragmentResponse{HTML: html})
}

type fragmentResponse struct {
	HTML  string `json:"html,omitempty"`
	Error bool   `json:"error,omitempty"`
}

// GetPicks returns the current board snapshot
func (h *Handler) GetPicks(w http.ResponseWriter, r *http.Request) {
	snap := h.board.Load()
	if snap == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"ready": false,
			"picks": []models.Pick{},
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ready":              true,
		"id":                 snap.ID,
		"picks":              snap.Picks,
		"refreshed_at":       snap.RefreshedAt,
		"matches_scanned":    snap.MatchesScanned,
		"predictions_failed": snap.PredictionsFailed,
	})
}

// GetPicksHistory returns archived boards, newest first
// Query params: limit
func (h *Handler) GetPicksHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotFound, "snapshot archive is not enabled", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseIntParam(r, "limit", 0)
	snapshots, err := h.history.ListRecent(ctx, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve snapshots", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// HealthCheck returns the liveness of the service and its optional backends.
// Backend failures degrade the report but never fail liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	backends := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("backend", name).Msg("Health check failed")
			backends[name] = "unhealthy"
			status = "degraded"
			continue
		}
		backends[name] = "healthy"
	}

	body := map[string]interface{}{
		"status":         status,
		"timestamp":      time.Now().UTC(),
		"service":        "quantumbetlab-web",
		"home_mode":      h.cfg.HomeMode,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"backends":       backends,
	}
	if len(h.stats) > 0 {
		stats := make(map[string]map[string]interface{}, len(h.stats))
		for name, fn := range h.stats {
			stats[name] = fn()
		}
		body["stats"] = stats
	}
	if snap := h.board.Load(); snap != nil {
		body["board_refreshed_at"] = snap.RefreshedAt
	}

	respondJSON(w, http.StatusOK, body)
}

// pathParam returns a decoded chi URL parameter
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg(message)
	}

	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
