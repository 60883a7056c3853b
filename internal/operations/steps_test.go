package operations

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nflpulse/internal/config"
	"nflpulse/internal/exporter"
	"nflpulse/internal/pipeline"
	"nflpulse/internal/store"
	"nflpulse/pkg/contracts/domain"
)

// buildFixtures writes raw tables for a tiny two-team season
func buildFixtures(t *testing.T, paths *config.Paths, st *store.Store) {
	t.Helper()
	require.NoError(t, paths.EnsureDirectories())

	teams := []pipeline.Row{
		{"TeamID": "1", "Name": "Cardinals", "City": "Arizona", "Conference": "NFC", "Division": "West"},
		{"TeamID": "2", "Name": "Ravens", "City": "Baltimore", "Conference": "AFC", "Division": "North"},
	}
	require.NoError(t, st.WriteRawTable(paths.RawPath(config.RawTeamsFile), teams))

	games := []pipeline.Row{
		{"GameID": "100", "Week": "1", "Date": "2024-09-08",
			"HomeTeamID": "1", "AwayTeamID": "2",
			"HomeScore": "24", "AwayScore": "20", "Status": "Final"},
		{"GameID": "101", "Week": "2", "Date": "2024-09-15",
			"HomeTeamID": "2", "AwayTeamID": "1",
			"HomeScore": "31", "AwayScore": "13", "Status": "Final"},
	}
	require.NoError(t, st.WriteRawTable(paths.RawPath(config.RawGamesFile("2024")), games))
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	paths, err := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})
	require.NoError(t, err)

	st := store.New(nil)
	buildFixtures(t, paths, st)

	registry := NewRegistry()
	require.NoError(t, RegisterPipelineSteps(
		registry, st, paths, exporter.NewTableExporter(paths), "2024", nil))

	manager := NewManager(registry, nil)
	result, err := manager.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, result.Status)

	for _, id := range []string{
		StepIDLoad, StepIDCleanTeams, StepIDCleanGames,
		StepIDFeatures, StepIDAggregate, StepIDExport,
	} {
		require.Contains(t, result.Steps, id)
		assert.Equal(t, StepStatusCompleted, result.Steps[id].CurrentStatus(), id)
	}

	// All five artifacts exist
	for _, name := range []string{
		config.CleanTeamsFile, config.CleanGamesFile,
		config.TeamStatsFile, config.TeamStatsJSONFile, config.TeamStatsXLSXFile,
	} {
		assert.FileExists(t, paths.ProcessedPath(name), name)
	}

	// Both teams split the two meetings, so net points breaks the tie:
	// team 2 outscored team 1 by 14 across the season
	data, err := os.ReadFile(paths.ProcessedPath(config.TeamStatsJSONFile))
	require.NoError(t, err)

	var stats []domain.TeamStats
	require.NoError(t, json.Unmarshal(data, &stats))
	require.Len(t, stats, 2)

	assert.Equal(t, 2, stats[0].TeamID)
	assert.Equal(t, 1, stats[0].PowerRanking)
	assert.Equal(t, 0.5, stats[0].WinPercentage)
	assert.Equal(t, 7.0, stats[0].NetPoints)
	assert.Equal(t, 1, stats[1].TeamID)
	assert.Equal(t, 2, stats[1].PowerRanking)
	assert.Equal(t, -7.0, stats[1].NetPoints)
}

func TestPipelineRunMissingRawGames(t *testing.T) {
	dir := t.TempDir()
	paths, err := config.NewPaths(config.PathsConfig{DataDir: dir, LogsDir: dir})
	require.NoError(t, err)

	st := store.New(nil)
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, st.WriteRawTable(paths.RawPath(config.RawTeamsFile), []pipeline.Row{
		{"TeamID": "1", "Name": "Cardinals"},
	}))

	registry := NewRegistry()
	require.NoError(t, RegisterPipelineSteps(
		registry, st, paths, exporter.NewTableExporter(paths), "2024", nil))

	manager := NewManager(registry, nil)
	result, err := manager.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, RunStatusFailed, result.Status)
	assert.Equal(t, StepStatusFailed, result.Steps[StepIDLoad].CurrentStatus())

	// Everything downstream of the load is skipped, nothing panics
	assert.Equal(t, StepStatusSkipped, result.Steps[StepIDCleanTeams].CurrentStatus())
	assert.Equal(t, StepStatusSkipped, result.Steps[StepIDExport].CurrentStatus())
}

func TestLoadStepValidate(t *testing.T) {
	step := NewLoadStep(store.New(nil), nil, "")
	assert.Error(t, step.Validate(NewRunState("test")))
}
