// Command fetcher pulls the raw team and game tables from the upstream
// sports data API and writes them into the raw data directory, ready for a
// processing run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"nflpulse/internal/config"
	"nflpulse/internal/fetch"
	"nflpulse/internal/infrastructure"
	"nflpulse/internal/pipeline"
	"nflpulse/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	season := flag.String("season", "", "season to fetch, e.g. 2024 (defaults to the configured season)")
	seasonType := flag.String("season-type", "", "season type: REG | POST | PRE (defaults to the configured type)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if *season != "" {
		cfg.Pipeline.Season = *season
	}
	if *seasonType != "" {
		cfg.Pipeline.SeasonType = *seasonType
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := fetch.NewClient(cfg.API, logger)

	logger.InfoContext(ctx, "fetch started",
		slog.String("season", cfg.Pipeline.Season),
		slog.String("season_type", cfg.Pipeline.SeasonType))

	var teams, games []pipeline.Row

	// The client's rate limiter serialises the actual requests; the group
	// just keeps decode and error handling concurrent.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = client.FetchTeams(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = client.FetchGames(gctx, cfg.Pipeline.Season, cfg.Pipeline.SeasonType)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch tables: %w", err)
	}

	st := store.New(logger)
	if err := st.WriteRawTable(paths.RawPath(config.RawTeamsFile), teams); err != nil {
		return fmt.Errorf("write teams table: %w", err)
	}
	if err := st.WriteRawTable(paths.RawPath(config.RawGamesFile(cfg.Pipeline.Season)), games); err != nil {
		return fmt.Errorf("write games table: %w", err)
	}

	logger.InfoContext(ctx, "fetch completed",
		slog.Int("teams", len(teams)),
		slog.Int("games", len(games)))

	return nil
}
