package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"nflpulse/internal/config"
	apperrors "nflpulse/internal/errors"
	"nflpulse/internal/infrastructure"
	"nflpulse/pkg/contracts/domain"
)

// StatsService serves the team statistics produced by the aggregation
// stage. It reads the JSON artifact from the processed directory and caches
// the parsed slice until the file changes on disk, so a pipeline run that
// rewrites the artifact is picked up without a restart.
type StatsService struct {
	paths  *config.Paths
	logger *slog.Logger

	mu      sync.RWMutex
	cached  []domain.TeamStats
	modTime time.Time
}

// NewStatsService creates a stats service backed by the processed directory
func NewStatsService(paths *config.Paths, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		paths:  paths,
		logger: infrastructure.WithComponent(logger, "stats_service"),
	}
}

// TeamStats returns every team's aggregates ordered by power ranking.
// The artifact is already written in ranking order, so no re-sort happens
// here.
func (s *StatsService) TeamStats(ctx context.Context) ([]domain.TeamStats, error) {
	stats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	// Hand out a copy; callers may slice and filter freely
	out := make([]domain.TeamStats, len(stats))
	copy(out, stats)
	return out, nil
}

// TeamStatsByID returns the aggregates for a single team
func (s *StatsService) TeamStatsByID(ctx context.Context, teamID int) (domain.TeamStats, error) {
	stats, err := s.load(ctx)
	if err != nil {
		return domain.TeamStats{}, err
	}

	for _, ts := range stats {
		if ts.TeamID == teamID {
			return ts, nil
		}
	}

	return domain.TeamStats{}, apperrors.NewNotFoundError("team").
		WithContext("team_id", teamID)
}

// TopTeams returns the strongest teams by power ranking, at most limit
// entries. A non-positive limit returns the full table.
func (s *StatsService) TopTeams(ctx context.Context, limit int) ([]domain.TeamStats, error) {
	stats, err := s.TeamStats(ctx)
	if err != nil {
		return nil, err
	}

	if limit > 0 && limit < len(stats) {
		stats = stats[:limit]
	}
	return stats, nil
}

// load returns the cached stats, re-reading the artifact when its
// modification time changed since the last read.
func (s *StatsService) load(ctx context.Context) ([]domain.TeamStats, error) {
	path := s.paths.ProcessedPath(config.TeamStatsJSONFile)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("team statistics").
				WithContext("path", path)
		}
		return nil, apperrors.NewStorageError("stat team statistics artifact", err)
	}

	s.mu.RLock()
	if s.cached != nil && info.ModTime().Equal(s.modTime) {
		stats := s.cached
		s.mu.RUnlock()
		return stats, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("read team statistics artifact", err)
	}

	var stats []domain.TeamStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, apperrors.NewParsingError("decode team statistics artifact", err)
	}

	s.mu.Lock()
	s.cached = stats
	s.modTime = info.ModTime()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "team statistics loaded",
		slog.String("path", path),
		slog.Int("teams", len(stats)))

	return stats, nil
}
