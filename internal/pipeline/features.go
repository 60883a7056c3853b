package pipeline

import (
	"context"
	"log/slog"
	"time"

	"nflpulse/pkg/contracts/domain"
)

const stageFeatures = "features"

// Closeness buckets for the margin of victory. Boundaries are inclusive on
// the lower side of each bucket; a tie (margin 0) lands in the first one.
const (
	ClosenessVeryClose = "Very Close (1-3)"
	ClosenessClose     = "Close (4-7)"
	ClosenessModerate  = "Moderate (8-14)"
	ClosenessBlowout   = "Blowout (15+)"
)

// Scoring buckets for combined points
const (
	ScoringLow      = "Low Scoring (≤35)"
	ScoringAverage  = "Average (36-45)"
	ScoringHigh     = "High (46-55)"
	ScoringVeryHigh = "Very High (56+)"
)

// completedStatuses are the status values that mark a finished game
var completedStatuses = map[string]bool{
	"Final":     true,
	"F":         true,
	"Completed": true,
}

// FeaturePlan records which derived feature groups are computable for a
// table. It is decided once from the table schema instead of re-checking
// column presence per record.
type FeaturePlan struct {
	Scores     bool // point differential, winner, margin, closeness, totals
	Completion bool // is_completed from status
	Temporal   bool // year, month, weekday, prime time, sunday
}

// planFor derives the feature plan from a game table schema
func planFor(schema Schema) FeaturePlan {
	return FeaturePlan{
		Scores:     schema.Has(FieldHomeScore) && schema.Has(FieldAwayScore),
		Completion: schema.Has(FieldStatus),
		Temporal:   schema.Has(FieldDate) || schema.Has(FieldDateTime),
	}
}

// EnrichedTable is the feature-enriched game artifact. Plan tells consumers
// which derived fields are meaningful; omitted groups stay at their zero
// values and must not be interpreted.
type EnrichedTable struct {
	Games  []domain.EnrichedGame
	Plan   FeaturePlan
	Schema Schema
}

// FeatureEngine derives analytical fields from cleaned games. Enrich is a
// pure, total function: it never fails, and a feature group whose source
// columns were absent from the raw input is simply omitted.
type FeatureEngine struct {
	logger *slog.Logger
}

// NewFeatureEngine creates a feature engine. A nil logger falls back to the
// process default.
func NewFeatureEngine(logger *slog.Logger) *FeatureEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeatureEngine{logger: logger}
}

// Enrich computes every derived field whose sources exist per the table
// schema. Winner resolution is stable three-way: equal scores are always a
// tie, never either team.
func (e *FeatureEngine) Enrich(ctx context.Context, t GameTable) (EnrichedTable, error) {
	plan := planFor(t.Schema)

	enriched := make([]domain.EnrichedGame, 0, len(t.Games))
	for _, game := range t.Games {
		eg := domain.EnrichedGame{Game: game}

		if plan.Scores {
			eg.PointDifferential = game.HomeScore - game.AwayScore
			eg.Winner = resolveWinner(game.HomeScore, game.AwayScore)
			eg.MarginOfVictory = abs(eg.PointDifferential)
			eg.Closeness = closenessBucket(eg.MarginOfVictory)
			eg.TotalPoints = game.HomeScore + game.AwayScore
			eg.ScoringCategory = scoringBucket(eg.TotalPoints)
		}

		if plan.Completion {
			eg.IsCompleted = completedStatuses[game.Status]
		}

		if plan.Temporal {
			eg.Year = game.Date.Year()
			eg.Month = int(game.Date.Month())
			eg.DayOfWeek = weekdayIndex(game.Date)
			eg.DayName = game.Date.Weekday().String()
			eg.IsPrimeTime = eg.DayOfWeek == 0 || eg.DayOfWeek == 3
			eg.IsSunday = eg.DayOfWeek == 6
		}

		enriched = append(enriched, eg)
	}

	rowsIn.WithLabelValues(stageFeatures).Add(float64(len(t.Games)))
	rowsOut.WithLabelValues(stageFeatures).Add(float64(len(enriched)))
	e.logger.InfoContext(ctx, "feature engineering completed",
		slog.Int("games", len(enriched)),
		slog.Bool("score_features", plan.Scores),
		slog.Bool("completion_flag", plan.Completion),
		slog.Bool("temporal_features", plan.Temporal))

	return EnrichedTable{Games: enriched, Plan: plan, Schema: t.Schema}, nil
}

// resolveWinner is the three-way outcome decision. Identical scores always
// resolve to a tie.
func resolveWinner(homeScore, awayScore int) domain.Outcome {
	switch {
	case homeScore > awayScore:
		return domain.OutcomeHome
	case awayScore > homeScore:
		return domain.OutcomeAway
	default:
		return domain.OutcomeTie
	}
}

// closenessBucket buckets a margin of victory
func closenessBucket(margin int) string {
	switch {
	case margin <= 3:
		return ClosenessVeryClose
	case margin <= 7:
		return ClosenessClose
	case margin <= 14:
		return ClosenessModerate
	default:
		return ClosenessBlowout
	}
}

// scoringBucket buckets the combined points of both teams
func scoringBucket(total int) string {
	switch {
	case total <= 35:
		return ScoringLow
	case total <= 45:
		return ScoringAverage
	case total <= 55:
		return ScoringHigh
	default:
		return ScoringVeryHigh
	}
}

// weekdayIndex returns the weekday with Monday as 0 and Sunday as 6,
// matching the convention of the enriched table consumers.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
