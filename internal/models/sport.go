package models

import (
	"fmt"
	"strings"
)

// Sport identifies one of the sports covered by the upstream API
type Sport string

const (
	Basketball Sport = "basketball"
	Soccer     Sport = "soccer"
)

// Sports lists every supported sport in extraction order.
// Basketball picks are always processed before soccer picks.
var Sports = []Sport{Basketball, Soccer}

// FetchKey returns the key used for schedule lookups (matches/upcoming)
func (s Sport) FetchKey() string {
	if s == Basketball {
		return "nba"
	}
	return string(s)
}

// PredictionLabel returns the label sent in prediction requests
func (s Sport) PredictionLabel() string {
	return string(s)
}

// DisplayName returns the short name shown on rendered pages
func (s Sport) DisplayName() string {
	switch s {
	case Basketball:
		return "NBA"
	case Soccer:
		return "Soccer"
	default:
		return string(s)
	}
}

// ParseSport accepts either a fetch key ("nba") or a prediction label ("basketball")
func ParseSport(value string) (Sport, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nba", "basketball":
		return Basketball, nil
	case "soccer":
		return Soccer, nil
	default:
		return "", fmt.Errorf("unsupported sport %q", value)
	}
}
