package picks

import (
	"context"
	"errors"
	"time"

	"quantumbetlab/web/internal/client"
	"quantumbetlab/web/internal/metrics"
	"quantumbetlab/web/internal/models"

	"github.com/rs/zerolog/log"
)

// Status classifies the outcome of an upstream fetch
type Status int

const (
	StatusOK          Status = iota // data returned
	StatusEmpty                     // upstream answered, nothing to show
	StatusUnavailable               // upstream failed; rendered the same as empty
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return "unavailable"
	}
}

// API is the subset of the Sportia client used to build picks
type API interface {
	FetchUpcomingMatches(ctx context.Context, sport models.Sport) ([]models.Match, error)
	FetchPrediction(ctx context.Context, match models.Match, sportLabel string) (*models.PredictionPayload, error)
}

var _ API = (*client.Client)(nil)

// MatchResult holds the qualifying matches of one sport
type MatchResult struct {
	Sport   models.Sport
	Matches []models.Match
	Err     error // upstream failure, already logged
}

// Status reports whether the result carries data
func (r MatchResult) Status() Status {
	if r.Err != nil {
		return StatusUnavailable
	}
	if len(r.Matches) == 0 {
		return StatusEmpty
	}
	return StatusOK
}

// PredictionResult holds the prediction for one match
type PredictionResult struct {
	Payload *models.PredictionPayload
	Err     error // upstream failure, already logged
}

// Status reports whether the result carries props
func (r PredictionResult) Status() Status {
	if r.Err != nil {
		return StatusUnavailable
	}
	if r.Payload == nil || len(r.Payload.PlayerProps) == 0 {
		return StatusEmpty
	}
	return StatusOK
}

// Source fetches matches and predictions, downgrading upstream failures to
// empty results
type Source struct {
	api    API
	window DateWindow
	loc    *time.Location
	now    func() time.Time
}

// NewSource creates a Source filtering matches to window in loc
func NewSource(api API, window DateWindow, loc *time.Location) *Source {
	if loc == nil {
		loc = time.UTC
	}
	return &Source{
		api:    api,
		window: window,
		loc:    loc,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for date filtering
func (s *Source) WithClock(now func() time.Time) *Source {
	s.now = now
	return s
}

// Window returns the date window matches are filtered to
func (s *Source) Window() DateWindow {
	return s.window
}

// Matches returns the sport's matches inside the date window. Upstream
// failures come back inside the result; the returned error is reserved for
// malformed match data (a missing start_time), which is not guarded.
func (s *Source) Matches(ctx context.Context, sport models.Sport) (MatchResult, error) {
	result := MatchResult{Sport: sport}

	all, err := s.api.FetchUpcomingMatches(ctx, sport)
	if err != nil {
		log.Warn().Err(err).Str("sport", sport.FetchKey()).Msg("Match fetch failed")
		metrics.RecordError("match_fetcher", errorType(err))
		result.Err = err
		return result, nil
	}

	matches, err := s.window.Filter(all, s.now(), s.loc)
	if err != nil {
		return result, err
	}
	result.Matches = matches

	log.Debug().
		Str("sport", sport.FetchKey()).
		Int("upcoming", len(all)).
		Int("qualifying", len(matches)).
		Str("window", s.window.String()).
		Msg("Matches fetched")

	return result, nil
}

// Prediction returns the prediction for a match, requested under the sport's
// prediction label
func (s *Source) Prediction(ctx context.Context, match models.Match) PredictionResult {
	payload, err := s.api.FetchPrediction(ctx, match, match.Sport.PredictionLabel())
	if err != nil {
		log.Warn().
			Err(err).
			Str("sport", string(match.Sport)).
			Str("event_id", match.EventID.String()).
			Msg("Prediction fetch failed")
		metrics.RecordError("prediction_fetcher", errorType(err))
		return PredictionResult{Err: err}
	}
	return PredictionResult{Payload: payload}
}

// BuildSnapshot fetches every sport, extracts picks from each qualifying
// match and ranks them. Basketball is processed before soccer and matches in
// upstream order, which fixes the tie-break order of the ranking.
func (s *Source) BuildSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var all []models.Pick
	scanned := 0
	failed := 0

	for _, sport := range models.Sports {
		res, err := s.Matches(ctx, sport)
		if err != nil {
			return nil, err
		}
		metrics.MatchesScanned.WithLabelValues(string(sport)).Set(float64(len(res.Matches)))

		for _, m := range res.Matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scanned++

			pred := s.Prediction(ctx, m)
			if pred.Status() == StatusUnavailable {
				failed++
				continue
			}
			all = append(all, Extract(pred.Payload, m)...)
		}
	}

	snapshot := models.NewSnapshot(Rank(all), s.now())
	snapshot.MatchesScanned = scanned
	snapshot.PredictionsFailed = failed
	return snapshot, nil
}

func errorType(err error) string {
	var apiErr *client.APIError
	switch {
	case client.IsTimeout(err):
		return "timeout"
	case errors.As(err, &apiErr):
		return "status"
	default:
		return "request"
	}
}
