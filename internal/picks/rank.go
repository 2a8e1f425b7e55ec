package picks

import (
	"sort"

	"quantumbetlab/web/internal/models"
)

// TopN is the size of the published board
const TopN = 7

// Rank orders picks by score, highest first, and keeps the top TopN. The sort
// is stable so ties keep insertion order. Scores of different sports are
// compared as they are, with no normalization between them.
func Rank(picks []models.Pick) []models.Pick {
	out := make([]models.Pick, len(picks))
	copy(out, picks)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}
