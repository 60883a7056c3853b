package http

import (
	"context"

	"nflpulse/pkg/contracts/domain"
)

// StatsServiceInterface defines what the rankings handler needs from the
// stats service. Declared here so handler tests can substitute a fake.
type StatsServiceInterface interface {
	TeamStats(ctx context.Context) ([]domain.TeamStats, error)
	TeamStatsByID(ctx context.Context, teamID int) (domain.TeamStats, error)
	TopTeams(ctx context.Context, limit int) ([]domain.TeamStats, error)
}
