package picks

import (
	"sync/atomic"

	"quantumbetlab/web/internal/models"
)

// Board holds the latest published snapshot. A single refresh job writes it;
// any number of request handlers read it without blocking. Published
// snapshots must not be modified afterwards.
type Board struct {
	current atomic.Pointer[models.Snapshot]
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// Publish replaces the current snapshot
func (b *Board) Publish(s *models.Snapshot) {
	b.current.Store(s)
}

// Load returns the current snapshot, or nil before the first publish
func (b *Board) Load() *models.Snapshot {
	return b.current.Load()
}

// Picks returns the current ranked picks; empty before the first publish
func (b *Board) Picks() []models.Pick {
	if s := b.current.Load(); s != nil {
		return s.Picks
	}
	return nil
}
