package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quantumbetlab/web/internal/cache"
	"quantumbetlab/web/internal/client"
	"quantumbetlab/web/internal/config"
	"quantumbetlab/web/internal/metrics"
	"quantumbetlab/web/internal/picks"
	"quantumbetlab/web/internal/repository"
	"quantumbetlab/web/internal/scheduler"
	"quantumbetlab/web/internal/web"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Setup logger
	setupLogger(cfg)

	log.Info().Msg("Starting QuantumBetLab web")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("home_mode", cfg.HomeMode).
		Str("date_window", cfg.DateWindow).
		Str("reference_tz", cfg.ReferenceTZ).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Sportia client and pick source
	api := client.NewClient(cfg.SportiaBaseURL, cfg.SportiaMatchTimeout, cfg.SportiaPredictTimeout)
	window, err := picks.ParseDateWindow(cfg.DateWindow)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid date window")
	}
	source := picks.NewSource(api, window, cfg.Location())
	board := picks.NewBoard()
	log.Info().Str("base_url", cfg.SportiaBaseURL).Msg("Sportia client initialized")

	handler, err := web.NewHandler(cfg, source, board)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load page templates")
	}
	sched := scheduler.NewScheduler(cfg, source, board)

	// Snapshot archive
	if cfg.ArchiveEnabled {
		db, err := repository.NewDatabase(ctx, repository.Config{
			Host:     cfg.DatabaseHost,
			Port:     strconv.Itoa(cfg.DatabasePort),
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseName,
			SSLMode:  cfg.DatabaseSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		sched.WithArchive(db.Snapshots)
		handler.WithHistory(db.Snapshots).
			WithHealthCheck("archive", db.Health).
			WithBackendStats("archive", db.PoolStats)
		log.Info().Msg("Snapshot archive enabled")
	}

	// Snapshot mirror
	if cfg.MirrorEnabled {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without snapshot mirror")
		} else {
			defer redisCache.Close()

			if _, err := sched.Seed(ctx, redisCache); err != nil {
				log.Warn().Err(err).Msg("Failed to seed board from mirror")
			}
			sched.WithMirror(redisCache)
			handler.WithHealthCheck("mirror", redisCache.Ping)
			log.Info().Msg("Snapshot mirror enabled")
		}
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	} else if cfg.HomeMode == config.HomeModePicks {
		log.Warn().Msg("Scheduler disabled: the picks board will not refresh")
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      web.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: web.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal, gracefully shutting down...")
	}

	// Stop the refresh job before closing the stores it writes to
	cancel()
	if cfg.EnableScheduler {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
		srv.Close()
	}

	log.Info().Msg("Server shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger(cfg *config.Config) {
	// Pretty console logging in development
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
