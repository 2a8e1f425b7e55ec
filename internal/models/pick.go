package models

import (
	"time"

	"github.com/google/uuid"
)

// Pick is a normalized, rankable recommendation derived from a prediction prop
type Pick struct {
	Sport  Sport   `json:"sport"`
	Match  string  `json:"match"`
	Market string  `json:"market"`
	Prob   float64 `json:"prob"`  // percentage, 1 decimal
	Edge   float64 `json:"edge"`  // percentage, 1 decimal
	Score  float64 `json:"score"` // computed from unrounded fractions
}

// Snapshot is one published board of ranked picks
type Snapshot struct {
	ID                uuid.UUID `json:"id"`
	Picks             []Pick    `json:"picks"`
	RefreshedAt       time.Time `json:"refreshed_at"`
	MatchesScanned    int       `json:"matches_scanned"`
	PredictionsFailed int       `json:"predictions_failed"`
}

// NewSnapshot stamps a ranked pick list with a fresh ID and timestamp
func NewSnapshot(picks []Pick, refreshedAt time.Time) *Snapshot {
	if picks == nil {
		picks = []Pick{}
	}
	return &Snapshot{
		ID:          uuid.New(),
		Picks:       picks,
		RefreshedAt: refreshedAt,
	}
}
