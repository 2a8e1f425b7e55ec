package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quantumbetlab/web/internal/metrics"
	"quantumbetlab/web/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Endpoint names used for metrics and errors
const (
	EndpointMatches = "matches_upcoming"
	EndpointPredict = "ai_predict"
)

// maxErrorBody caps how much of an error response is kept in APIError
const maxErrorBody = 512

// APIError is returned when the API answers with a non-success status
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsTimeout reports whether err was caused by a request deadline
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Client is the Sportia API client
type Client struct {
	baseURL        string
	httpClient     *http.Client
	matchTimeout   time.Duration
	predictTimeout time.Duration
}

// NewClient creates a new Sportia API client. Each endpoint has its own
// timeout; there is no retry, a failed call is reported to the caller as is.
func NewClient(baseURL string, matchTimeout, predictTimeout time.Duration) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		matchTimeout:   matchTimeout,
		predictTimeout: predictTimeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// do performs a request against the API and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, endpoint, method, path string, params map[string]string, payload interface{}, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "QuantumBetLab/1.0")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("url", req.URL.String()).
		Str("method", method).
		Str("request_id", requestID).
		Msg("Making API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		status := "error"
		if IsTimeout(err) {
			status = "timeout"
		}
		metrics.RecordAPICall(endpoint, status, time.Since(start).Seconds())
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.RecordAPICall(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(respBody)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: text}
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("size", len(respBody)).
		Dur("duration", time.Since(start)).
		Msg("API request successful")

	return respBody, nil
}

// FetchUpcomingMatches fetches upcoming matches for a sport. Every returned
// match carries the sport it was fetched for.
func (c *Client) FetchUpcomingMatches(ctx context.Context, sport models.Sport) ([]models.Match, error) {
	body, err := c.do(ctx, EndpointMatches, http.MethodGet, "matches/upcoming",
		map[string]string{"sport": sport.FetchKey()}, nil, c.matchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s matches: %w", sport.FetchKey(), err)
	}

	var matches []models.Match
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s matches: %w", sport.FetchKey(), err)
	}

	for i := range matches {
		matches[i].Sport = sport
	}

	return matches, nil
}

// FetchPrediction requests the AI prediction for a match under the given sport label
func (c *Client) FetchPrediction(ctx context.Context, match models.Match, sportLabel string) (*models.PredictionPayload, error) {
	reqBody := models.NewPredictionRequest(match, sportLabel)

	body, err := c.do(ctx, EndpointPredict, http.MethodPost, "ai/predict", nil, reqBody, c.predictTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prediction for event %s: %w", match.EventID, err)
	}

	var payload models.PredictionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction for event %s: %w", match.EventID, err)
	}
	if payload.SkippedProps > 0 {
		log.Warn().
			Str("event_id", match.EventID.String()).
			Int("skipped", payload.SkippedProps).
			Msg("Dropped malformed props from prediction")
	}

	return &payload, nil
}
