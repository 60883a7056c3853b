package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"nflpulse/pkg/contracts/domain"
)

const stageAggregate = "aggregate"

// TeamAggregator computes the per-team performance table from enriched
// games: home and away splits, the merged combined view, and the power
// ranking.
type TeamAggregator struct {
	logger *slog.Logger
}

// NewTeamAggregator creates a team aggregator. A nil logger falls back to
// the process default.
func NewTeamAggregator(logger *slog.Logger) *TeamAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamAggregator{logger: logger}
}

// Aggregate builds the ranked team table from completed games.
//
// When the table carries a completion flag only flagged games participate;
// otherwise any game with a score falls back to counting as completed. Home
// and away perspectives are aggregated separately, merged full-outer by team
// id (a missing side contributes zeros), combined rates are weighted by the
// respective game counts with a zero-games divisor guard, and the ranking is
// a stable sort on win percentage then net points. No completed games yields
// an empty table, not an error.
func (a *TeamAggregator) Aggregate(ctx context.Context, t EnrichedTable) ([]domain.TeamStats, error) {
	completed := a.completedGames(t)
	rowsIn.WithLabelValues(stageAggregate).Add(float64(len(t.Games)))

	if len(completed) == 0 {
		a.logger.WarnContext(ctx, "no completed games found for aggregations",
			slog.Int("games", len(t.Games)))
		return []domain.TeamStats{}, nil
	}

	// The merge order is first appearance of the team in the completed
	// events, which keeps the pre-ranking order deterministic and makes
	// the stable tie-break meaningful.
	order := make([]int, 0)
	index := make(map[int]int)
	appear := func(teamID int) {
		if _, ok := index[teamID]; !ok {
			index[teamID] = len(order)
			order = append(order, teamID)
		}
	}
	for _, g := range completed {
		appear(g.HomeTeamID)
		appear(g.AwayTeamID)
	}

	stats := make([]domain.TeamStats, len(order))
	for i, teamID := range order {
		stats[i] = domain.TeamStats{TeamID: teamID}
	}

	homeScore := func(g domain.EnrichedGame) float64 { return float64(g.HomeScore) }
	awayScore := func(g domain.EnrichedGame) float64 { return float64(g.AwayScore) }
	differential := func(g domain.EnrichedGame) float64 { return float64(g.PointDifferential) }

	for _, grp := range groupBy(completed, func(g domain.EnrichedGame) int { return g.HomeTeamID }) {
		s := &stats[index[grp.Key]]
		s.HomeGames = len(grp.Items)
		s.AvgPointsScoredHome = meanBy(grp.Items, homeScore)
		s.TotalPointsHome = int(sumBy(grp.Items, homeScore))
		s.StdPointsHome = stdBy(grp.Items, homeScore)
		s.AvgPointsAllowedHome = meanBy(grp.Items, awayScore)
		s.AvgDifferentialHome = meanBy(grp.Items, differential)
		s.HomeWins = countBy(grp.Items, func(g domain.EnrichedGame) bool {
			return g.HomeScore > g.AwayScore
		})
	}

	for _, grp := range groupBy(completed, func(g domain.EnrichedGame) int { return g.AwayTeamID }) {
		s := &stats[index[grp.Key]]
		s.AwayGames = len(grp.Items)
		s.AvgPointsScoredAway = meanBy(grp.Items, awayScore)
		s.TotalPointsAway = int(sumBy(grp.Items, awayScore))
		s.StdPointsAway = stdBy(grp.Items, awayScore)
		s.AvgPointsAllowedAway = meanBy(grp.Items, homeScore)
		// Flip the sign so the away differential is also from this
		// team's perspective: positive means favourable.
		s.AvgDifferentialAway = -meanBy(grp.Items, differential)
		s.AwayWins = countBy(grp.Items, func(g domain.EnrichedGame) bool {
			return g.AwayScore > g.HomeScore
		})
	}

	for i := range stats {
		s := &stats[i]
		s.TotalGames = s.HomeGames + s.AwayGames
		s.TotalWins = s.HomeWins + s.AwayWins
		s.TotalLosses = s.TotalGames - s.TotalWins

		// Guard the divisor only: a team with zero completed games
		// reports zero rates, never a division fault.
		div := float64(s.TotalGames)
		if div == 0 {
			div = 1
		}
		s.WinPercentage = float64(s.TotalWins) / div
		s.AvgPointsScored = (s.AvgPointsScoredHome*float64(s.HomeGames) +
			s.AvgPointsScoredAway*float64(s.AwayGames)) / div
		s.AvgPointsAllowed = (s.AvgPointsAllowedHome*float64(s.HomeGames) +
			s.AvgPointsAllowedAway*float64(s.AwayGames)) / div

		s.NetPoints = s.AvgPointsScored - s.AvgPointsAllowed
		s.HomeFieldAdvantage = s.AvgDifferentialHome - s.AvgDifferentialAway
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].WinPercentage != stats[j].WinPercentage {
			return stats[i].WinPercentage > stats[j].WinPercentage
		}
		return stats[i].NetPoints > stats[j].NetPoints
	})
	for i := range stats {
		stats[i].PowerRanking = i + 1
	}

	rowsOut.WithLabelValues(stageAggregate).Add(float64(len(stats)))
	a.logger.InfoContext(ctx, "team aggregations completed",
		slog.Int("completed_games", len(completed)),
		slog.Int("teams", len(stats)))

	return stats, nil
}

// completedGames filters the table to games that contribute to aggregates.
// Without a completion flag in the plan, a game with any points on the board
// counts as played.
func (a *TeamAggregator) completedGames(t EnrichedTable) []domain.EnrichedGame {
	completed := make([]domain.EnrichedGame, 0, len(t.Games))
	for _, g := range t.Games {
		if t.Plan.Completion {
			if g.IsCompleted {
				completed = append(completed, g)
			}
			continue
		}
		if g.HomeScore > 0 || g.AwayScore > 0 {
			completed = append(completed, g)
		}
	}
	return completed
}
