package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nflpulse/internal/config"
	"nflpulse/internal/pipeline"
	"nflpulse/pkg/contracts/domain"
)

// TableExporter writes the cleaned and aggregated tables produced by the
// pipeline into the processed data directory.
type TableExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewTableExporter creates a new table exporter
func NewTableExporter(paths *config.Paths) *TableExporter {
	return &TableExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

var teamHeaders = []string{
	"team_id", "team_name", "city", "abbreviation", "conference", "division",
}

// ExportCleanTeams writes the cleaned team table
func (e *TableExporter) ExportCleanTeams(table pipeline.TeamTable) error {
	records := make([][]string, 0, len(table.Teams))
	for _, team := range table.Teams {
		records = append(records, []string{
			formatInt(int64(team.ID)),
			team.Name,
			team.City,
			team.Abbreviation,
			string(team.Conference),
			team.Division,
		})
	}
	return e.csvWriter.WriteSimpleCSV(config.CleanTeamsFile, teamHeaders, records)
}

var gameHeaders = []string{
	"game_id", "season", "season_type", "week", "date",
	"home_team_id", "away_team_id", "home_score", "away_score", "status",
	"point_differential", "winner", "margin_of_victory", "game_closeness",
	"is_completed", "year", "month", "day_of_week", "day_name",
	"is_prime_time", "is_sunday", "total_points", "scoring_category",
}

// ExportEnrichedGames writes the cleaned game table with its derived
// columns. Games is the largest artifact, so rows are streamed instead of
// buffered.
func (e *TableExporter) ExportEnrichedGames(table pipeline.EnrichedTable) error {
	sw, err := e.csvWriter.CreateStreamWriter(config.CleanGamesFile, gameHeaders)
	if err != nil {
		return err
	}

	for _, game := range table.Games {
		record := []string{
			formatInt(int64(game.ID)),
			formatInt(int64(game.Season)),
			game.SeasonType,
			formatInt(int64(game.Week)),
			game.Date.Format(time.DateOnly),
			formatInt(int64(game.HomeTeamID)),
			formatInt(int64(game.AwayTeamID)),
			formatInt(int64(game.HomeScore)),
			formatInt(int64(game.AwayScore)),
			game.Status,
			formatInt(int64(game.PointDifferential)),
			game.Winner.String(),
			formatInt(int64(game.MarginOfVictory)),
			game.Closeness,
			formatBool(game.IsCompleted),
			formatInt(int64(game.Year)),
			formatInt(int64(game.Month)),
			formatInt(int64(game.DayOfWeek)),
			game.DayName,
			formatBool(game.IsPrimeTime),
			formatBool(game.IsSunday),
			formatInt(int64(game.TotalPoints)),
			game.ScoringCategory,
		}
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return fmt.Errorf("write game record %d: %w", game.ID, err)
		}
	}

	return sw.Close()
}

var statsHeaders = []string{
	"team_id",
	"home_games", "home_wins", "avg_points_scored_home", "total_points_home",
	"std_points_home", "avg_points_allowed_home", "avg_differential_home",
	"away_games", "away_wins", "avg_points_scored_away", "total_points_away",
	"std_points_away", "avg_points_allowed_away", "avg_differential_away",
	"total_games", "total_wins", "total_losses", "win_percentage",
	"avg_points_scored", "avg_points_allowed", "net_points",
	"home_field_advantage", "power_ranking",
}

// ExportTeamStats writes the aggregated team statistics table in ranking order
func (e *TableExporter) ExportTeamStats(stats []domain.TeamStats) error {
	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		records = append(records, []string{
			formatInt(int64(s.TeamID)),
			formatInt(int64(s.HomeGames)),
			formatInt(int64(s.HomeWins)),
			formatFloat(s.AvgPointsScoredHome),
			formatInt(int64(s.TotalPointsHome)),
			formatFloat(s.StdPointsHome),
			formatFloat(s.AvgPointsAllowedHome),
			formatFloat(s.AvgDifferentialHome),
			formatInt(int64(s.AwayGames)),
			formatInt(int64(s.AwayWins)),
			formatFloat(s.AvgPointsScoredAway),
			formatInt(int64(s.TotalPointsAway)),
			formatFloat(s.StdPointsAway),
			formatFloat(s.AvgPointsAllowedAway),
			formatFloat(s.AvgDifferentialAway),
			formatInt(int64(s.TotalGames)),
			formatInt(int64(s.TotalWins)),
			formatInt(int64(s.TotalLosses)),
			formatFloat(s.WinPercentage),
			formatFloat(s.AvgPointsScored),
			formatFloat(s.AvgPointsAllowed),
			formatFloat(s.NetPoints),
			formatFloat(s.HomeFieldAdvantage),
			formatInt(int64(s.PowerRanking)),
		})
	}
	return e.csvWriter.WriteSimpleCSV(config.TeamStatsFile, statsHeaders, records)
}

// ExportTeamStatsJSON writes the aggregated statistics as a JSON artifact
// for the web API and downstream consumers
func (e *TableExporter) ExportTeamStatsJSON(stats []domain.TeamStats) error {
	path := e.paths.ProcessedPath(config.TeamStatsJSONFile)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
