package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quantumbetlab/web/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultHistoryLimit and MaxHistoryLimit bound ListRecent
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS pick_snapshots (
		id                 UUID PRIMARY KEY,
		refreshed_at       TIMESTAMPTZ NOT NULL,
		matches_scanned    INTEGER NOT NULL DEFAULT 0,
		predictions_failed INTEGER NOT NULL DEFAULT 0,
		pick_count         INTEGER NOT NULL DEFAULT 0,
		picks              JSONB NOT NULL DEFAULT '[]',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_pick_snapshots_refreshed_at
		ON pick_snapshots (refreshed_at DESC);
`

// SnapshotRepository archives published pick boards
type SnapshotRepository struct {
	db *Database
}

// Migrate creates the pick_snapshots table if it is missing
func (r *SnapshotRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("failed to migrate pick_snapshots: %w", err)
	}
	return nil
}

// SaveSnapshot appends a board to the archive. Saving the same snapshot
// twice is a no-op.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	picks, err := json.Marshal(snap.Picks)
	if err != nil {
		return fmt.Errorf("failed to marshal picks: %w", err)
	}

	query := `
		INSERT INTO pick_snapshots (
			id, refreshed_at, matches_scanned, predictions_failed, pick_count, picks
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.db.Pool.Exec(ctx, query,
		snap.ID.String(), snap.RefreshedAt, snap.MatchesScanned, snap.PredictionsFailed,
		len(snap.Picks), picks,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Debug().
		Str("snapshot_id", snap.ID.String()).
		Int("picks", len(snap.Picks)).
		Msg("Snapshot archived")
	return nil
}

// ListRecent returns the newest archived boards first. limit is clamped to
// [1, MaxHistoryLimit]; zero or negative selects DefaultHistoryLimit.
func (r *SnapshotRepository) ListRecent(ctx context.Context, limit int) ([]*models.Snapshot, error) {
	limit = ClampLimit(limit)

	query := `
		SELECT id::text, refreshed_at, matches_scanned, predictions_failed, picks
		FROM pick_snapshots
		ORDER BY refreshed_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*models.Snapshot, 0, limit)
	for rows.Next() {
		var (
			id          string
			refreshedAt time.Time
			picks       []byte
			snap        models.Snapshot
		)
		if err := rows.Scan(&id, &refreshedAt, &snap.MatchesScanned, &snap.PredictionsFailed, &picks); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		if snap.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid snapshot id %q: %w", id, err)
		}
		snap.RefreshedAt = refreshedAt.UTC()

		if err := json.Unmarshal(picks, &snap.Picks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal picks for snapshot %s: %w", id, err)
		}
		if snap.Picks == nil {
			snap.Picks = []models.Pick{}
		}

		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// ClampLimit normalizes a requested history size
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}
