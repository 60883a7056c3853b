package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"nflpulse/pkg/contracts/domain"
)

const stageGames = "clean_games"

// Week numbers cover the regular season plus playoffs
const (
	minWeek = 1
	maxWeek = 22
)

// GameTable is the cleaned game artifact: canonical records plus the schema
// descriptor of the raw input they were derived from.
type GameTable struct {
	Games  []domain.Game
	Schema Schema
}

// GameCleaner normalizes, deduplicates and filters raw game rows.
// It performs no I/O; the returned table is its only effect.
type GameCleaner struct {
	logger *slog.Logger
}

// NewGameCleaner creates a game cleaner. A nil logger falls back to the
// process default.
func NewGameCleaner(logger *slog.Logger) *GameCleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameCleaner{logger: logger}
}

// Clean produces the canonical game table from raw rows.
//
// Deduplication keeps the first occurrence of each game id in input order.
// Missing or unparsable scores default to 0 (a game not yet played, not an
// error); unparsable dates and identifiers drop the row because everything
// downstream depends on them. Business-rule filters then apply in order:
// self-play games first, then weeks outside [1, 22]. Every removal count is
// logged; none of it is an error.
func (c *GameCleaner) Clean(ctx context.Context, raw []Row) (GameTable, error) {
	rowsIn.WithLabelValues(stageGames).Add(float64(len(raw)))

	if len(raw) == 0 {
		c.logger.WarnContext(ctx, "no game rows to clean")
		return GameTable{Games: []domain.Game{}, Schema: Schema{}}, nil
	}

	schema := schemaOf(raw, gameFieldAliases)

	idColumn := findIDColumn(raw, gameIDPriority)
	if idColumn == "" {
		c.logger.WarnContext(ctx, "no game identifier column recognized, returning empty table",
			slog.Int("row_count", len(raw)))
		return GameTable{Games: []domain.Game{}, Schema: schema}, nil
	}

	deduped := dedupeByColumn(raw, idColumn)
	if removed := len(raw) - len(deduped); removed > 0 {
		rowsDropped.WithLabelValues(stageGames, ReasonDuplicate).Add(float64(removed))
		c.logger.InfoContext(ctx, "removed duplicate games",
			slog.String("id_column", idColumn),
			slog.Int("removed", removed))
	}

	games := make([]domain.Game, 0, len(deduped))
	var badIDs, badDates, badTeamIDs, selfPlay, badWeeks, defaultedScores int

	for _, row := range deduped {
		canonical := canonicalize(row, gameFieldAliases)

		id, ok := parseInt(canonical[FieldGameID])
		if !ok {
			badIDs++
			continue
		}

		date, ok := parseDate(canonical[FieldDate])
		if !ok {
			// The datetime variant carries the same calendar day for
			// payloads that omit the plain date column.
			date, ok = parseDate(canonical[FieldDateTime])
		}
		if !ok {
			badDates++
			continue
		}

		homeScore, ok := parseInt(canonical[FieldHomeScore])
		if !ok {
			homeScore = 0
			defaultedScores++
		}
		awayScore, ok := parseInt(canonical[FieldAwayScore])
		if !ok {
			awayScore = 0
			defaultedScores++
		}

		// Identifiers are never silently zeroed: a game whose team ids
		// cannot be coerced is removed by the business-rule pass below.
		homeTeam, homeOK := parseInt(canonical[FieldHomeTeamID])
		awayTeam, awayOK := parseInt(canonical[FieldAwayTeamID])
		if !homeOK || !awayOK {
			badTeamIDs++
			continue
		}
		if homeTeam == awayTeam {
			selfPlay++
			continue
		}

		week, weekOK := parseInt(canonical[FieldWeek])
		if !weekOK || week < minWeek || week > maxWeek {
			badWeeks++
			continue
		}

		season, _ := parseInt(canonical[FieldSeason])
		timeRemaining, _ := parseFloat(canonical[FieldTimeRemaining])
		temperature, _ := parseFloat(canonical[FieldWeatherTemperature])
		windSpeed, _ := parseFloat(canonical[FieldWindSpeed])

		games = append(games, domain.Game{
			ID:                 id,
			Season:             season,
			SeasonType:         strings.TrimSpace(canonical[FieldSeasonType]),
			Week:               week,
			Date:               date,
			HomeTeamID:         homeTeam,
			AwayTeamID:         awayTeam,
			HomeScore:          homeScore,
			AwayScore:          awayScore,
			Status:             strings.TrimSpace(canonical[FieldStatus]),
			Quarter:            strings.TrimSpace(canonical[FieldQuarter]),
			TimeRemaining:      timeRemaining,
			WeatherTemperature: temperature,
			WindSpeed:          windSpeed,
		})
	}

	c.logDropCount(ctx, ReasonBadID, "dropped games with non-coercible game ids", badIDs)
	c.logDropCount(ctx, ReasonBadDate, "dropped games with unparsable dates", badDates)
	c.logDropCount(ctx, ReasonBadID, "dropped games with non-coercible team ids", badTeamIDs)
	c.logDropCount(ctx, ReasonSelfPlay, "removed games where a team plays itself", selfPlay)
	c.logDropCount(ctx, ReasonInvalidWeek, "removed games with invalid week numbers", badWeeks)

	if defaultedScores > 0 {
		valuesCoerced.WithLabelValues(stageGames, FieldHomeScore).Add(float64(defaultedScores))
		c.logger.InfoContext(ctx, "defaulted missing scores to zero",
			slog.Int("count", defaultedScores))
	}

	rowsOut.WithLabelValues(stageGames).Add(float64(len(games)))
	c.logger.InfoContext(ctx, "game cleaning completed",
		slog.Int("raw_rows", len(raw)),
		slog.Int("clean_rows", len(games)))

	return GameTable{Games: games, Schema: schema}, nil
}

func (c *GameCleaner) logDropCount(ctx context.Context, reason, message string, count int) {
	if count == 0 {
		return
	}
	rowsDropped.WithLabelValues(stageGames, reason).Add(float64(count))
	c.logger.WarnContext(ctx, message, slog.Int("removed", count))
}
