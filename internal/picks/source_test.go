package picks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"quantumbetlab/web/internal/client"
	"quantumbetlab/web/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned matches and predictions keyed by event ID
type fakeAPI struct {
	matches     map[models.Sport][]models.Match
	matchErr    map[models.Sport]error
	predictions map[models.EventID]*models.PredictionPayload
	predictErr  map[models.EventID]error
	labels      []string
}

func (f *fakeAPI) FetchUpcomingMatches(_ context.Context, sport models.Sport) ([]models.Match, error) {
	if err := f.matchErr[sport]; err != nil {
		return nil, err
	}
	return f.matches[sport], nil
}

func (f *fakeAPI) FetchPrediction(_ context.Context, match models.Match, label string) (*models.PredictionPayload, error) {
	f.labels = append(f.labels, label)
	if err := f.predictErr[match.EventID]; err != nil {
		return nil, err
	}
	if p, ok := f.predictions[match.EventID]; ok {
		return p, nil
	}
	return &models.PredictionPayload{}, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newFakeSource(api API) *Source {
	return NewSource(api, Today, time.UTC).WithClock(func() time.Time { return fixedNow })
}

func nbaProp(name string, edge float64) models.PredictionProp {
	return models.PredictionProp{
		Name: name, Type: "Points", Line: "20.5",
		BetTier: models.ValueBetTier, ModelProbOver: 0.5, EdgeOver: edge, Confidence: 70,
	}
}

func soccerProp(market string, edge float64) models.PredictionProp {
	return models.PredictionProp{
		Type: market, Line: "2.5",
		BetTier: models.ValueBetTier, BetDecision: models.Over, ModelProbOver: 0.5, EdgeOver: edge,
	}
}

func TestSource_Matches_UpstreamFailuresAreEmpty(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"server error", &client.APIError{Endpoint: client.EndpointMatches, StatusCode: http.StatusInternalServerError}},
		{"timeout", fmt.Errorf("failed to execute request: %w", context.DeadlineExceeded)},
		{"malformed body", errors.New("failed to unmarshal matches: invalid character '<'")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{matchErr: map[models.Sport]error{models.Soccer: tt.err}}

			res, err := newFakeSource(api).Matches(context.Background(), models.Soccer)
			require.NoError(t, err)
			assert.Empty(t, res.Matches)
			assert.Equal(t, StatusUnavailable, res.Status())
			assert.ErrorIs(t, res.Err, tt.err)
		})
	}
}

func TestSource_Matches_FiltersToWindow(t *testing.T) {
	api := &fakeAPI{matches: map[models.Sport][]models.Match{
		models.Basketball: {
			{Sport: models.Basketball, EventID: "1", StartTime: "2024-06-01T23:59:00+00:00"},
			{Sport: models.Basketball, EventID: "2", StartTime: "2024-06-02T00:01:00+00:00"},
		},
	}}

	res, err := newFakeSource(api).Matches(context.Background(), models.Basketball)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, models.EventID("1"), res.Matches[0].EventID)
	assert.Equal(t, StatusOK, res.Status())

	empty, err := newFakeSource(&fakeAPI{}).Matches(context.Background(), models.Soccer)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, empty.Status())
}

func TestSource_Matches_MissingStartTimeFails(t *testing.T) {
	api := &fakeAPI{matches: map[models.Sport][]models.Match{
		models.Soccer: {{Sport: models.Soccer, EventID: "7"}},
	}}

	_, err := newFakeSource(api).Matches(context.Background(), models.Soccer)
	assert.Error(t, err)
}

func TestSource_Prediction(t *testing.T) {
	api := &fakeAPI{
		predictErr: map[models.EventID]error{"bad": &client.APIError{StatusCode: http.StatusForbidden}},
		predictions: map[models.EventID]*models.PredictionPayload{
			"good": {PlayerProps: []models.PredictionProp{nbaProp("A", 0.1)}},
		},
	}
	src := newFakeSource(api)

	bad := src.Prediction(context.Background(), models.Match{Sport: models.Basketball, EventID: "bad"})
	assert.Equal(t, StatusUnavailable, bad.Status())
	assert.Nil(t, bad.Payload)

	good := src.Prediction(context.Background(), models.Match{Sport: models.Basketball, EventID: "good"})
	assert.Equal(t, StatusOK, good.Status())

	none := src.Prediction(context.Background(), models.Match{Sport: models.Soccer, EventID: "none"})
	assert.Equal(t, StatusEmpty, none.Status())

	assert.Equal(t, []string{"basketball", "basketball", "soccer"}, api.labels)
}

func TestSource_BuildSnapshot(t *testing.T) {
	api := &fakeAPI{
		matches: map[models.Sport][]models.Match{
			models.Basketball: {
				{Sport: models.Basketball, EventID: "n1", Home: "Lakers", Away: "Celtics", StartTime: "2024-06-01T19:00:00Z"},
				{Sport: models.Basketball, EventID: "n2", Home: "Heat", Away: "Knicks", StartTime: "2024-06-01T21:00:00Z"},
				{Sport: models.Basketball, EventID: "n3", Home: "Suns", Away: "Jazz", StartTime: "2024-06-03T21:00:00Z"},
			},
			models.Soccer: {
				{Sport: models.Soccer, EventID: "s1", Home: "Arsenal", Away: "Chelsea", StartTime: "2024-06-01T15:00:00Z"},
			},
		},
		predictions: map[models.EventID]*models.PredictionPayload{
			"n1": {PlayerProps: []models.PredictionProp{nbaProp("A", 0.1), nbaProp("B", 0.3)}},
			"s1": {PlayerProps: []models.PredictionProp{soccerProp("Goals", 0.1), soccerProp("Corners", 0.4)}},
		},
		predictErr: map[models.EventID]error{
			"n2": fmt.Errorf("failed to execute request: %w", context.DeadlineExceeded),
		},
	}

	snap, err := newFakeSource(api).BuildSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, 3, snap.MatchesScanned)
	assert.Equal(t, 1, snap.PredictionsFailed)
	assert.Equal(t, fixedNow, snap.RefreshedAt)
	assert.NotEqual(t, uuid.Nil, snap.ID)

	markets := make([]string, len(snap.Picks))
	for i, p := range snap.Picks {
		markets[i] = p.Market
	}
	// B and Corners score 0.15 and 0.2; A and Goals tie at 0.05 with basketball first
	assert.Equal(t, []string{
		"Corners OVER 2.5",
		"B OVER 20.5 Points",
		"A OVER 20.5 Points",
		"Goals OVER 2.5",
	}, markets)
}

func TestSource_BuildSnapshot_AllUpstreamDown(t *testing.T) {
	down := &client.APIError{Endpoint: client.EndpointMatches, StatusCode: http.StatusBadGateway}
	api := &fakeAPI{matchErr: map[models.Sport]error{models.Basketball: down, models.Soccer: down}}

	snap, err := newFakeSource(api).BuildSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Picks)
	assert.NotNil(t, snap.Picks)
	assert.Zero(t, snap.MatchesScanned)
}

func TestSource_BuildSnapshot_MalformedMatchAbortsCycle(t *testing.T) {
	api := &fakeAPI{matches: map[models.Sport][]models.Match{
		models.Soccer: {{Sport: models.Soccer, EventID: "s1", StartTime: "not a time"}},
	}}

	snap, err := newFakeSource(api).BuildSnapshot(context.Background())
	assert.Error(t, err)
	assert.Nil(t, snap)
}

func TestSource_BuildSnapshot_Cancelled(t *testing.T) {
	api := &fakeAPI{matches: map[models.Sport][]models.Match{
		models.Basketball: {{Sport: models.Basketball, EventID: "n1", StartTime: "2024-06-01T19:00:00Z"}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFakeSource(api).BuildSnapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
