package picks

import (
	"fmt"

	"quantumbetlab/web/internal/models"

	"github.com/shopspring/decimal"
)

// MinBasketballConfidence is the lowest model confidence accepted for a basketball pick
const MinBasketballConfidence = 60

// stability weights favour stat categories that have historically been
// more predictable. Unlisted types weigh 1.0.
var stability = map[string]float64{
	"Rebounds": 1.25,
	"Assists":  1.1,
	"Points":   1.0,
}

// StabilityMultiplier returns the basketball weight for a stat type
func StabilityMultiplier(statType string) float64 {
	if m, ok := stability[statType]; ok {
		return m
	}
	return 1.0
}

// ExtractBasketball turns the VALUE BET props of a basketball prediction into
// picks. Basketball picks are always presented as OVER bets, whatever side
// the prop itself decided.
func ExtractBasketball(payload *models.PredictionPayload, match models.Match) []models.Pick {
	if payload == nil {
		return nil
	}

	var out []models.Pick
	for _, p := range payload.PlayerProps {
		if !p.IsValueBet() || p.Confidence < MinBasketballConfidence {
			continue
		}

		out = append(out, models.Pick{
			Sport:  models.Basketball,
			Match:  match.Label(),
			Market: fmt.Sprintf("%s %s %s %s", p.Name, models.Over, p.LineText(), p.Type),
			Prob:   Percent(p.ModelProbOver),
			Edge:   Percent(p.EdgeOver),
			Score:  p.EdgeOver * p.ModelProbOver * StabilityMultiplier(p.Type),
		})
	}
	return out
}

// ExtractSoccer turns the VALUE BET props of a soccer prediction into picks.
// Unlike basketball the model's own side is respected and no stat weighting
// applies.
func ExtractSoccer(payload *models.PredictionPayload, match models.Match) []models.Pick {
	if payload == nil {
		return nil
	}

	label := payload.MatchLabel()
	if label == "" {
		label = match.Label()
	}

	var out []models.Pick
	for _, p := range payload.PlayerProps {
		if !p.IsValueBet() {
			continue
		}

		side := p.DecidedSide()
		prob, edge := p.SideValues(side)

		out = append(out, models.Pick{
			Sport:  models.Soccer,
			Match:  label,
			Market: fmt.Sprintf("%s %s %s", p.Type, side, p.LineText()),
			Prob:   Percent(prob),
			Edge:   Percent(edge),
			Score:  prob * edge,
		})
	}
	return out
}

// Extract dispatches to the extractor for the match's sport
func Extract(payload *models.PredictionPayload, match models.Match) []models.Pick {
	if match.Sport == models.Soccer {
		return ExtractSoccer(payload, match)
	}
	return ExtractBasketball(payload, match)
}

// Percent converts a fraction to a percentage rounded to one decimal
func Percent(fraction float64) float64 {
	v, _ := decimal.NewFromFloat(fraction).Shift(2).Round(1).Float64()
	return v
}
