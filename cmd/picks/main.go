// Command picks runs one board refresh against the Sportia API and prints
// the ranked picks.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"quantumbetlab/web/internal/client"
	"quantumbetlab/web/internal/config"
	"quantumbetlab/web/internal/models"
	"quantumbetlab/web/internal/picks"
	"quantumbetlab/web/internal/repository"
	"quantumbetlab/web/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		asJSON  = flag.Bool("json", false, "Print the snapshot as JSON")
		archive = flag.Bool("archive", false, "Append the snapshot to the archive database")
		window  = flag.String("window", "", "Date window override: today|today_tomorrow (env: DATE_WINDOW)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.MustLoad()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
	if *window != "" {
		cfg.DateWindow = *window
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *archive, *asJSON); err != nil {
		log.Error().Err(err).Msg("Refresh failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, archive, asJSON bool) error {
	dateWindow, err := picks.ParseDateWindow(cfg.DateWindow)
	if err != nil {
		return err
	}

	api := client.NewClient(cfg.SportiaBaseURL, cfg.SportiaMatchTimeout, cfg.SportiaPredictTimeout)
	source := picks.NewSource(api, dateWindow, cfg.Location())
	sched := scheduler.NewScheduler(cfg, source, picks.NewBoard())

	if archive {
		db, err := repository.NewDatabase(ctx, repository.Config{
			Host:     cfg.DatabaseHost,
			Port:     strconv.Itoa(cfg.DatabasePort),
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseName,
			SSLMode:  cfg.DatabaseSSLMode,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		sched.WithArchive(db.Snapshots)
	}

	snap, err := sched.RefreshOnce(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return printTable(snap)
}

func printTable(snap *models.Snapshot) error {
	if len(snap.Picks) == 0 {
		fmt.Println("No value bets right now.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSPORT\tMATCH\tMARKET\tPROB\tEDGE\tSCORE")
	for i, p := range snap.Picks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f%%\t%+.1f%%\t%.4f\n",
			i+1, p.Sport.DisplayName(), p.Match, p.Market, p.Prob, p.Edge, p.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d matches scanned, %d predictions failed, snapshot %s\n",
		snap.MatchesScanned, snap.PredictionsFailed, snap.ID)
	return nil
}
