package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quantumbetlab/web/internal/config"
	"quantumbetlab/web/internal/metrics"
	"quantumbetlab/web/internal/models"
	"quantumbetlab/web/internal/picks"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Builder produces a fresh board snapshot
type Builder interface {
	BuildSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// Archive stores every published snapshot
type Archive interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
}

// Mirror keeps the latest snapshot outside the process
type Mirror interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error
}

// Loader reads back the last mirrored snapshot
type Loader interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// Scheduler owns the pick board refresh job. It is the board's only writer:
// every run builds a complete snapshot and publishes it in one swap, so a
// failed run leaves the previous board in place.
type Scheduler struct {
	cfg       *config.Config
	builder   Builder
	board     *picks.Board
	archive   Archive
	mirror    Mirror
	cron      *cron.Cron
	recoverer cron.JobWrapper

	// serializes runs; an overlapping trigger is skipped
	running sync.Mutex
	wg      sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, builder Builder, board *picks.Board) *Scheduler {
	recoverer := cron.Recover(cron.PrintfLogger(&log.Logger))
	return &Scheduler{
		cfg:       cfg,
		builder:   builder,
		board:     board,
		cron:      cron.New(cron.WithChain(recoverer)),
		recoverer: recoverer,
	}
}

// WithArchive makes every published snapshot get appended to a
func (s *Scheduler) WithArchive(a Archive) *Scheduler {
	s.archive = a
	return s
}

// WithMirror makes every published snapshot get written to m
func (s *Scheduler) WithMirror(m Mirror) *Scheduler {
	s.mirror = m
	return s
}

// Start runs one refresh immediately, then on the configured interval until
// ctx is cancelled or Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	spec := s.cfg.RefreshSpec()
	if _, err := s.cron.AddFunc(spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule board refresh: %w", err)
	}

	// the first run goes through the same recover wrapper as scheduled ones
	first := cron.NewChain(s.recoverer).Then(cron.FuncJob(func() { s.run(ctx) }))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		first.Run()
	}()

	s.cron.Start()
	log.Info().
		Str("schedule", spec).
		Msg("Board refresh scheduled")

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running refresh to return
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	<-s.cron.Stop().Done()
	s.wg.Wait()

	log.Info().Msg("Scheduler stopped")
}

// Seed publishes the snapshot held by l so a restarted process serves the
// last board until its first refresh completes. It returns nil, nil when
// there is nothing to seed from.
func (s *Scheduler) Seed(ctx context.Context, l Loader) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	snap, err := l.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load mirrored snapshot: %w", err)
	}
	if snap == nil {
		log.Info().Msg("No mirrored snapshot to seed from")
		return nil, nil
	}

	s.board.Publish(snap)
	metrics.RecordBoard(len(snap.Picks))
	log.Info().
		Str("snapshot_id", snap.ID.String()).
		Time("refreshed_at", snap.RefreshedAt).
		Int("picks", len(snap.Picks)).
		Msg("Board seeded from mirror")
	return snap, nil
}

func (s *Scheduler) run(ctx context.Context) {
	if !s.running.TryLock() {
		log.Warn().Msg("Previous board refresh still running, skipping")
		return
	}
	defer s.running.Unlock()

	if ctx.Err() != nil {
		return
	}
	if _, err := s.RefreshOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Board refresh failed")
	}
}

// RefreshOnce builds and publishes one snapshot. Archive and mirror failures
// are logged and counted but do not undo the publish.
func (s *Scheduler) RefreshOnce(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()

	snap, err := s.builder.BuildSnapshot(ctx)
	if err != nil {
		metrics.RecordRefresh("failure", time.Since(start).Seconds())
		metrics.RecordError("scheduler", "refresh")
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	s.board.Publish(snap)
	metrics.RecordRefresh("success", time.Since(start).Seconds())
	metrics.RecordBoard(len(snap.Picks))

	log.Info().
		Str("snapshot_id", snap.ID.String()).
		Int("picks", len(snap.Picks)).
		Int("matches_scanned", snap.MatchesScanned).
		Int("predictions_failed", snap.PredictionsFailed).
		Dur("duration", time.Since(start)).
		Msg("Board refreshed")

	s.persist(ctx, snap)
	return snap, nil
}

func (s *Scheduler) persist(ctx context.Context, snap *models.Snapshot) {
	if s.archive != nil {
		if err := s.archive.SaveSnapshot(ctx, snap); err != nil {
			log.Error().Err(err).Str("snapshot_id", snap.ID.String()).Msg("Failed to archive snapshot")
			metrics.RecordSnapshotWrite("archive", "error")
		} else {
			metrics.RecordSnapshotWrite("archive", "success")
		}
	}

	if s.mirror != nil {
		if err := s.mirror.SaveSnapshot(ctx, snap, s.cfg.SnapshotTTL); err != nil {
			log.Error().Err(err).Str("snapshot_id", snap.ID.String()).Msg("Failed to mirror snapshot")
			metrics.RecordSnapshotWrite("mirror", "error")
		} else {
			metrics.RecordSnapshotWrite("mirror", "success")
		}
	}
}
