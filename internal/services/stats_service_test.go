package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nflpulse/internal/config"
	apperrors "nflpulse/internal/errors"
	"nflpulse/pkg/contracts/domain"
)

func newTestStatsService(t *testing.T) (*StatsService, *config.Paths) {
	t.Helper()

	dir := t.TempDir()
	paths, err := config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(dir, "data"),
		LogsDir: filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStatsService(paths, logger), paths
}

func writeStatsArtifact(t *testing.T, paths *config.Paths, stats []domain.TeamStats) {
	t.Helper()

	data, err := json.Marshal(stats)
	require.NoError(t, err)
	path := paths.ProcessedPath(config.TeamStatsJSONFile)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestStatsServiceTeamStats(t *testing.T) {
	svc, paths := newTestStatsService(t)
	ctx := context.Background()

	writeStatsArtifact(t, paths, []domain.TeamStats{
		{TeamID: 7, TotalGames: 4, TotalWins: 3, WinPercentage: 0.75, PowerRanking: 1},
		{TeamID: 3, TotalGames: 4, TotalWins: 1, WinPercentage: 0.25, PowerRanking: 2},
	})

	stats, err := svc.TeamStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 7, stats[0].TeamID)
	assert.Equal(t, 1, stats[0].PowerRanking)
}

func TestStatsServiceTeamStatsByID(t *testing.T) {
	svc, paths := newTestStatsService(t)
	ctx := context.Background()

	writeStatsArtifact(t, paths, []domain.TeamStats{
		{TeamID: 7, WinPercentage: 0.75, PowerRanking: 1},
	})

	t.Run("found", func(t *testing.T) {
		ts, err := svc.TeamStatsByID(ctx, 7)
		require.NoError(t, err)
		assert.InDelta(t, 0.75, ts.WinPercentage, 1e-9)
	})

	t.Run("unknown team", func(t *testing.T) {
		_, err := svc.TeamStatsByID(ctx, 99)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
	})
}

func TestStatsServiceMissingArtifact(t *testing.T) {
	svc, _ := newTestStatsService(t)

	_, err := svc.TeamStats(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

func TestStatsServiceCorruptArtifact(t *testing.T) {
	svc, paths := newTestStatsService(t)

	path := paths.ProcessedPath(config.TeamStatsJSONFile)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := svc.TeamStats(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestStatsServiceReloadsOnChange(t *testing.T) {
	svc, paths := newTestStatsService(t)
	ctx := context.Background()

	writeStatsArtifact(t, paths, []domain.TeamStats{{TeamID: 1, PowerRanking: 1}})

	stats, err := svc.TeamStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	// Rewrite with a bumped mtime so the cache invalidates
	writeStatsArtifact(t, paths, []domain.TeamStats{
		{TeamID: 1, PowerRanking: 1},
		{TeamID: 2, PowerRanking: 2},
	})
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(paths.ProcessedPath(config.TeamStatsJSONFile), future, future))

	stats, err = svc.TeamStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 2)
}

func TestStatsServiceTopTeams(t *testing.T) {
	svc, paths := newTestStatsService(t)
	ctx := context.Background()

	writeStatsArtifact(t, paths, []domain.TeamStats{
		{TeamID: 1, PowerRanking: 1},
		{TeamID: 2, PowerRanking: 2},
		{TeamID: 3, PowerRanking: 3},
	})

	t.Run("limit applied", func(t *testing.T) {
		top, err := svc.TopTeams(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, 1, top[0].TeamID)
	})

	t.Run("zero limit returns all", func(t *testing.T) {
		top, err := svc.TopTeams(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, top, 3)
	})
}
