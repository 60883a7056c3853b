package operations

import (
	"context"
	"fmt"
	"log/slog"

	"nflpulse/internal/config"
	"nflpulse/internal/exporter"
	"nflpulse/internal/pipeline"
	"nflpulse/internal/store"
	"nflpulse/pkg/contracts/domain"
)

// Step identifiers
const (
	StepIDLoad       = "load"
	StepIDCleanTeams = "clean_teams"
	StepIDCleanGames = "clean_games"
	StepIDFeatures   = "features"
	StepIDAggregate  = "aggregate"
	StepIDExport     = "export"
)

// LoadStep reads the raw team and game tables written by the fetcher
type LoadStep struct {
	store  *store.Store
	paths  *config.Paths
	season string
}

// NewLoadStep creates the raw table loading step
func NewLoadStep(s *store.Store, paths *config.Paths, season string) *LoadStep {
	return &LoadStep{store: s, paths: paths, season: season}
}

func (s *LoadStep) ID() string { return StepIDLoad }
func (s *LoadStep) Name() string { return "Load Raw Tables" }
func (s *LoadStep) Dependencies() []string { return nil }

func (s *LoadStep) Validate(state *RunState) error {
	if s.season == "" {
		return fmt.Errorf("season not configured")
	}
	return nil
}

func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	teams, err := s.store.ReadRawTable(s.paths.RawPath(config.RawTeamsFile))
	if err != nil {
		return fmt.Errorf("load raw teams: %w", err)
	}

	games, err := s.store.ReadRawTable(s.paths.RawPath(config.RawGamesFile(s.season)))
	if err != nil {
		return fmt.Errorf("load raw games: %w", err)
	}

	state.SetContext(ContextKeyRawTeams, teams)
	state.SetContext(ContextKeyRawGames, games)
	return nil
}

// CleanTeamsStep produces the validated team table
type CleanTeamsStep struct {
	cleaner *pipeline.TeamCleaner
}

// NewCleanTeamsStep creates the team cleaning step
func NewCleanTeamsStep(logger *slog.Logger) *CleanTeamsStep {
	return &CleanTeamsStep{cleaner: pipeline.NewTeamCleaner(logger)}
}

func (s *CleanTeamsStep) ID() string { return StepIDCleanTeams }
func (s *CleanTeamsStep) Name() string { return "Clean Teams" }
func (s *CleanTeamsStep) Dependencies() []string { return []string{StepIDLoad} }

func (s *CleanTeamsStep) Validate(state *RunState) error {
	return requireContext(state, ContextKeyRawTeams)
}

func (s *CleanTeamsStep) Execute(ctx context.Context, state *RunState) error {
	raw, err := contextValue[[]pipeline.Row](state, ContextKeyRawTeams)
	if err != nil {
		return err
	}

	table, err := s.cleaner.Clean(ctx, raw)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyTeams, table)
	return nil
}

// CleanGamesStep produces the validated game table
type CleanGamesStep struct {
	cleaner *pipeline.GameCleaner
}

// NewCleanGamesStep creates the game cleaning step
func NewCleanGamesStep(logger *slog.Logger) *CleanGamesStep {
	return &CleanGamesStep{cleaner: pipeline.NewGameCleaner(logger)}
}

func (s *CleanGamesStep) ID() string { return StepIDCleanGames }
func (s *CleanGamesStep) Name() string { return "Clean Games" }
func (s *CleanGamesStep) Dependencies() []string { return []string{StepIDLoad} }

func (s *CleanGamesStep) Validate(state *RunState) error {
	return requireContext(state, ContextKeyRawGames)
}

func (s *CleanGamesStep) Execute(ctx context.Context, state *RunState) error {
	raw, err := contextValue[[]pipeline.Row](state, ContextKeyRawGames)
	if err != nil {
		return err
	}

	table, err := s.cleaner.Clean(ctx, raw)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyGames, table)
	return nil
}

// FeaturesStep derives the analytical columns from cleaned games
type FeaturesStep struct {
	engine *pipeline.FeatureEngine
}

// NewFeaturesStep creates the feature derivation step
func NewFeaturesStep(logger *slog.Logger) *FeaturesStep {
	return &FeaturesStep{engine: pipeline.NewFeatureEngine(logger)}
}

func (s *FeaturesStep) ID() string { return StepIDFeatures }
func (s *FeaturesStep) Name() string { return "Derive Features" }
func (s *FeaturesStep) Dependencies() []string { return []string{StepIDCleanGames} }

func (s *FeaturesStep) Validate(state *RunState) error {
	return requireContext(state, ContextKeyGames)
}

func (s *FeaturesStep) Execute(ctx context.Context, state *RunState) error {
	games, err := contextValue[pipeline.GameTable](state, ContextKeyGames)
	if err != nil {
		return err
	}

	enriched, err := s.engine.Enrich(ctx, games)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyEnriched, enriched)
	return nil
}

// AggregateStep computes the per-team statistics and power ranking
type AggregateStep struct {
	aggregator *pipeline.TeamAggregator
}

// NewAggregateStep creates the aggregation step
func NewAggregateStep(logger *slog.Logger) *AggregateStep {
	return &AggregateStep{aggregator: pipeline.NewTeamAggregator(logger)}
}

func (s *AggregateStep) ID() string { return StepIDAggregate }
func (s *AggregateStep) Name() string { return "Aggregate Team Stats" }
func (s *AggregateStep) Dependencies() []string { return []string{StepIDFeatures} }

func (s *AggregateStep) Validate(state *RunState) error {
	return requireContext(state, ContextKeyEnriched)
}

func (s *AggregateStep) Execute(ctx context.Context, state *RunState) error {
	enriched, err := contextValue[pipeline.EnrichedTable](state, ContextKeyEnriched)
	if err != nil {
		return err
	}

	stats, err := s.aggregator.Aggregate(ctx, enriched)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyTeamStats, stats)
	return nil
}

// ExportStep writes the processed artifacts. Each artifact is written in
// isolation: a panic or error while writing one does not stop the others,
// and the step reports the first failure after all writers have run.
type ExportStep struct {
	exporter *exporter.TableExporter
	logger   *slog.Logger
}

// NewExportStep creates the artifact export step
func NewExportStep(e *exporter.TableExporter, logger *slog.Logger) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{exporter: e, logger: logger}
}

func (s *ExportStep) ID() string { return StepIDExport }
func (s *ExportStep) Name() string { return "Export Artifacts" }

func (s *ExportStep) Dependencies() []string {
	return []string{StepIDCleanTeams, StepIDAggregate}
}

func (s *ExportStep) Validate(state *RunState) error {
	if err := requireContext(state, ContextKeyTeams); err != nil {
		return err
	}
	if err := requireContext(state, ContextKeyEnriched); err != nil {
		return err
	}
	return requireContext(state, ContextKeyTeamStats)
}

func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	teams, err := contextValue[pipeline.TeamTable](state, ContextKeyTeams)
	if err != nil {
		return err
	}
	enriched, err := contextValue[pipeline.EnrichedTable](state, ContextKeyEnriched)
	if err != nil {
		return err
	}
	stats, err := contextValue[[]domain.TeamStats](state, ContextKeyTeamStats)
	if err != nil {
		return err
	}

	artifacts := []struct {
		name  string
		write func() error
	}{
		{"clean_teams_csv", func() error { return s.exporter.ExportCleanTeams(teams) }},
		{"clean_games_csv", func() error { return s.exporter.ExportEnrichedGames(enriched) }},
		{"team_stats_csv", func() error { return s.exporter.ExportTeamStats(stats) }},
		{"team_stats_json", func() error { return s.exporter.ExportTeamStatsJSON(stats) }},
		{"rankings_xlsx", func() error { return s.exporter.ExportRankingsWorkbook(stats) }},
	}

	var firstErr error
	for _, artifact := range artifacts {
		if err := s.writeArtifact(ctx, artifact.name, artifact.write); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// writeArtifact runs one artifact writer with panic recovery
func (s *ExportStep) writeArtifact(ctx context.Context, name string, write func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("artifact %s panicked: %v", name, recovered)
			s.logger.ErrorContext(ctx, "artifact writer panicked",
				slog.String("artifact", name),
				slog.Any("panic", recovered))
		}
	}()

	if err = write(); err != nil {
		s.logger.ErrorContext(ctx, "artifact write failed",
			slog.String("artifact", name),
			slog.String("error", err.Error()))
		return fmt.Errorf("artifact %s: %w", name, err)
	}

	s.logger.InfoContext(ctx, "artifact written", slog.String("artifact", name))
	return nil
}

// requireContext checks that a context key was populated by an earlier step
func requireContext(state *RunState, key string) error {
	if _, ok := state.GetContext(key); !ok {
		return fmt.Errorf("missing %s in run context", key)
	}
	return nil
}

// contextValue fetches and type-asserts a run context value
func contextValue[T any](state *RunState, key string) (T, error) {
	var zero T
	raw, ok := state.GetContext(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in run context", key)
	}
	value, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type %T for %s", raw, key)
	}
	return value, nil
}

// RegisterPipelineSteps wires the full processing pipeline into a registry
func RegisterPipelineSteps(registry *Registry, s *store.Store, paths *config.Paths,
	e *exporter.TableExporter, season string, logger *slog.Logger) error {

	steps := []Step{
		NewLoadStep(s, paths, season),
		NewCleanTeamsStep(logger),
		NewCleanGamesStep(logger),
		NewFeaturesStep(logger),
		NewAggregateStep(logger),
		NewExportStep(e, logger),
	}

	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return fmt.Errorf("register step %s: %w", step.ID(), err)
		}
	}
	return nil
}
