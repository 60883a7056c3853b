package pipeline

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nflpulse/pkg/contracts/domain"
)

func enrichOne(t *testing.T, game domain.Game, schema Schema) domain.EnrichedGame {
	t.Helper()
	engine := NewFeatureEngine(slog.Default())
	table, err := engine.Enrich(context.Background(), GameTable{Games: []domain.Game{game}, Schema: schema})
	require.NoError(t, err)
	require.Len(t, table.Games, 1)
	return table.Games[0]
}

func fullSchema() Schema {
	return Schema{
		FieldGameID:     true,
		FieldDate:       true,
		FieldHomeScore:  true,
		FieldAwayScore:  true,
		FieldStatus:     true,
		FieldWeek:       true,
		FieldHomeTeamID: true,
		FieldAwayTeamID: true,
	}
}

func TestFeatureEngine_WinnerResolution(t *testing.T) {
	tests := []struct {
		name         string
		home, away   int
		wantOutcome  domain.Outcome
		wantWinnerID int
		wantResolved bool
	}{
		{name: "home win", home: 27, away: 20, wantOutcome: domain.OutcomeHome, wantWinnerID: 1, wantResolved: true},
		{name: "away win", home: 14, away: 31, wantOutcome: domain.OutcomeAway, wantWinnerID: 2, wantResolved: true},
		{name: "tie resolves to tie, never a team", home: 20, away: 20, wantOutcome: domain.OutcomeTie, wantResolved: false},
		{name: "scoreless tie", home: 0, away: 0, wantOutcome: domain.OutcomeTie, wantResolved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eg := enrichOne(t, domain.Game{
				ID: 1, HomeTeamID: 1, AwayTeamID: 2,
				HomeScore: tt.home, AwayScore: tt.away,
				Date: time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
			}, fullSchema())

			assert.Equal(t, tt.wantOutcome, eg.Winner)
			winnerID, resolved := eg.WinnerTeamID()
			assert.Equal(t, tt.wantResolved, resolved)
			if tt.wantResolved {
				assert.Equal(t, tt.wantWinnerID, winnerID)
			}
			assert.Equal(t, tt.home-tt.away, eg.PointDifferential)
			assert.Equal(t, tt.home+tt.away, eg.TotalPoints)
		})
	}
}

func TestClosenessBucket(t *testing.T) {
	tests := []struct {
		margin int
		want   string
	}{
		{margin: 0, want: ClosenessVeryClose},
		{margin: 1, want: ClosenessVeryClose},
		{margin: 3, want: ClosenessVeryClose},
		{margin: 4, want: ClosenessClose},
		{margin: 7, want: ClosenessClose},
		{margin: 8, want: ClosenessModerate},
		{margin: 14, want: ClosenessModerate},
		{margin: 15, want: ClosenessBlowout},
		{margin: 40, want: ClosenessBlowout},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, closenessBucket(tt.margin), "margin %d", tt.margin)
	}
}

func TestScoringBucket(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{total: 0, want: ScoringLow},
		{total: 35, want: ScoringLow},
		{total: 36, want: ScoringAverage},
		{total: 45, want: ScoringAverage},
		{total: 46, want: ScoringHigh},
		{total: 55, want: ScoringHigh},
		{total: 56, want: ScoringVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scoringBucket(tt.total), "total %d", tt.total)
	}
}

func TestFeatureEngine_TemporalFeatures(t *testing.T) {
	tests := []struct {
		name          string
		date          time.Time
		wantDay       int
		wantDayName   string
		wantPrimeTime bool
		wantSunday    bool
	}{
		{
			name:        "sunday afternoon game",
			date:        time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
			wantDay:     6,
			wantDayName: "Sunday",
			wantSunday:  true,
		},
		{
			name:          "monday night football",
			date:          time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC),
			wantDay:       0,
			wantDayName:   "Monday",
			wantPrimeTime: true,
		},
		{
			name:          "thursday night football",
			date:          time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC),
			wantDay:       3,
			wantDayName:   "Thursday",
			wantPrimeTime: true,
		},
		{
			name:        "saturday game is neither",
			date:        time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC),
			wantDay:     5,
			wantDayName: "Saturday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eg := enrichOne(t, domain.Game{
				ID: 1, HomeTeamID: 1, AwayTeamID: 2, Date: tt.date,
			}, fullSchema())

			assert.Equal(t, tt.date.Year(), eg.Year)
			assert.Equal(t, int(tt.date.Month()), eg.Month)
			assert.Equal(t, tt.wantDay, eg.DayOfWeek)
			assert.Equal(t, tt.wantDayName, eg.DayName)
			assert.Equal(t, tt.wantPrimeTime, eg.IsPrimeTime)
			assert.Equal(t, tt.wantSunday, eg.IsSunday)
		})
	}
}

func TestFeatureEngine_CompletionFlag(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: "Final", want: true},
		{status: "F", want: true},
		{status: "Completed", want: true},
		{status: "Scheduled", want: false},
		{status: "InProgress", want: false},
		{status: "", want: false},
	}

	for _, tt := range tests {
		eg := enrichOne(t, domain.Game{
			ID: 1, HomeTeamID: 1, AwayTeamID: 2, Status: tt.status,
			Date: time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
		}, fullSchema())
		assert.Equal(t, tt.want, eg.IsCompleted, "status %q", tt.status)
	}
}

func TestFeatureEngine_PlanOmitsAbsentSources(t *testing.T) {
	schema := Schema{
		FieldGameID:     true,
		FieldDate:       true,
		FieldHomeTeamID: true,
		FieldAwayTeamID: true,
	}

	engine := NewFeatureEngine(slog.Default())
	table, err := engine.Enrich(context.Background(), GameTable{
		Games: []domain.Game{{
			ID: 1, HomeTeamID: 1, AwayTeamID: 2,
			Date: time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
		}},
		Schema: schema,
	})
	require.NoError(t, err)

	assert.False(t, table.Plan.Scores, "no score columns in the source table")
	assert.False(t, table.Plan.Completion, "no status column in the source table")
	assert.True(t, table.Plan.Temporal)

	// Omitted groups stay at zero values
	eg := table.Games[0]
	assert.Empty(t, eg.Closeness)
	assert.Empty(t, eg.ScoringCategory)
	assert.Empty(t, eg.Winner)
}

func TestFeatureEngine_Deterministic(t *testing.T) {
	engine := NewFeatureEngine(slog.Default())
	input := GameTable{
		Games: []domain.Game{
			{ID: 1, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 21, AwayScore: 21, Status: "Final", Date: time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)},
			{ID: 2, HomeTeamID: 3, AwayTeamID: 4, HomeScore: 30, AwayScore: 13, Status: "Final", Date: time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC)},
		},
		Schema: fullSchema(),
	}

	first, err := engine.Enrich(context.Background(), input)
	require.NoError(t, err)
	second, err := engine.Enrich(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Games, second.Games)
}
