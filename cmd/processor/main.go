// Command processor runs the full pipeline over previously fetched raw
// tables: cleaning, feature derivation, aggregation and artifact export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nflpulse/internal/config"
	"nflpulse/internal/exporter"
	"nflpulse/internal/infrastructure"
	"nflpulse/internal/operations"
	"nflpulse/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	season := flag.String("season", "", "season to process, e.g. 2024 (defaults to the configured season)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if *season != "" {
		cfg.Pipeline.Season = *season
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

	registry := operations.NewRegistry()
	err = operations.RegisterPipelineSteps(
		registry,
		store.New(logger),
		paths,
		exporter.NewTableExporter(paths),
		cfg.Pipeline.Season,
		logger,
	)
	if err != nil {
		return fmt.Errorf("register pipeline steps: %w", err)
	}

	manager := operations.NewManager(registry, logger)

	result, err := manager.Execute(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run %s: %w", resultID(result), err)
	}

	logger.InfoContext(ctx, "pipeline run finished",
		slog.String("run_id", result.ID),
		slog.String("status", string(result.Status)),
		slog.Duration("duration", result.Duration))

	return nil
}

func resultID(result *operations.RunResult) string {
	if result == nil {
		return "unknown"
	}
	return result.ID
}
