package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueBetTier is the bet tier that marks a prop as mispriced in the bettor's favour
const ValueBetTier = "VALUE BET"

// BetSide is the side of a prop line
type BetSide string

const (
	Over  BetSide = "OVER"
	Under BetSide = "UNDER"
)

// PredictionRequest is the body sent to the prediction endpoint
type PredictionRequest struct {
	Sport    string `json:"sport"`
	League   string `json:"league"`
	EventID  string `json:"event_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// NewPredictionRequest builds a request for a match under the given sport label
func NewPredictionRequest(m Match, sportLabel string) PredictionRequest {
	return PredictionRequest{
		Sport:    sportLabel,
		League:   m.League,
		EventID:  m.EventID.String(),
		HomeTeam: m.Home,
		AwayTeam: m.Away,
	}
}

// PredictionPayload is the prediction endpoint response
type PredictionPayload struct {
	Match       json.RawMessage  `json:"match,omitempty"`
	PlayerProps []PredictionProp `json:"player_props"`

	// SkippedProps counts props dropped because they failed to decode
	SkippedProps int `json:"-"`
}

// UnmarshalJSON decodes props one at a time so a single malformed prop
// (a "N/A" line, a quoted confidence) does not discard the rest of the match.
func (p *PredictionPayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Match       json.RawMessage   `json:"match,omitempty"`
		PlayerProps []json.RawMessage `json:"player_props"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Match = raw.Match
	p.PlayerProps = make([]PredictionProp, 0, len(raw.PlayerProps))
	p.SkippedProps = 0
	for _, item := range raw.PlayerProps {
		var prop PredictionProp
		if err := json.Unmarshal(item, &prop); err != nil {
			p.SkippedProps++
			continue
		}
		p.PlayerProps = append(p.PlayerProps, prop)
	}
	return nil
}

// MatchLabel returns the payload's own match description, if it carries one.
// The API sends either a plain string or an object with home/away names.
func (p *PredictionPayload) MatchLabel() string {
	if p == nil || len(p.Match) == 0 {
		return ""
	}

	var label string
	if err := json.Unmarshal(p.Match, &label); err == nil {
		return strings.TrimSpace(label)
	}

	var obj struct {
		Home     string `json:"home"`
		Away     string `json:"away"`
		HomeTeam string `json:"home_team"`
		AwayTeam string `json:"away_team"`
	}
	if err := json.Unmarshal(p.Match, &obj); err != nil {
		return ""
	}
	home, away := obj.Home, obj.Away
	if home == "" {
		home = obj.HomeTeam
	}
	if away == "" {
		away = obj.AwayTeam
	}
	if home == "" || away == "" {
		return ""
	}
	return fmt.Sprintf("%s vs %s", home, away)
}

// PredictionProp is one predicted line (player stat for basketball, match market for soccer)
type PredictionProp struct {
	Name           string      `json:"name,omitempty"`
	Type           string      `json:"type"`
	Line           json.Number `json:"line"`
	BetTier        string      `json:"bet_tier"`
	BetDecision    BetSide     `json:"bet_decision"`
	ModelProbOver  float64     `json:"model_prob_over"`
	ModelProbUnder float64     `json:"model_prob_under"`
	EdgeOver       float64     `json:"edge_over"`
	EdgeUnder      float64     `json:"edge_under"`
	Confidence     float64     `json:"confidence,omitempty"` // 0-100, basketball only
}

// IsValueBet reports whether the prop is in the VALUE BET tier
func (p PredictionProp) IsValueBet() bool {
	return p.BetTier == ValueBetTier
}

// DecidedSide returns the side chosen by the model, defaulting to OVER
func (p PredictionProp) DecidedSide() BetSide {
	if strings.EqualFold(string(p.BetDecision), string(Under)) {
		return Under
	}
	return Over
}

// SideValues returns the model probability and edge for a side, as fractions
func (p PredictionProp) SideValues(side BetSide) (prob, edge float64) {
	if side == Under {
		return p.ModelProbUnder, p.EdgeUnder
	}
	return p.ModelProbOver, p.EdgeOver
}

// LineText returns the line exactly as the API sent it
func (p PredictionProp) LineText() string {
	return p.Line.String()
}
