package domain

import (
	"time"
)

// Game represents a cleaned NFL game record. Scores default to zero for
// games that have not been played; Date is always valid because rows with
// unparsable dates are dropped during cleaning.
type Game struct {
	ID         int       `json:"game_id" csv:"game_id" validate:"required,min=1"`
	Season     int       `json:"season" csv:"season"`
	SeasonType string    `json:"season_type" csv:"season_type"`
	Week       int       `json:"week" csv:"week" validate:"min=1,max=22"`
	Date       time.Time `json:"date" csv:"date"`
	HomeTeamID int       `json:"home_team_id" csv:"home_team_id" validate:"required,nefield=AwayTeamID"`
	AwayTeamID int       `json:"away_team_id" csv:"away_team_id" validate:"required"`
	HomeScore  int       `json:"home_score" csv:"home_score" validate:"min=0"`
	AwayScore  int       `json:"away_score" csv:"away_score" validate:"min=0"`
	Status     string    `json:"status" csv:"status"`

	// Optional context fields, zero when the upstream payload omits them.
	Quarter            string  `json:"quarter,omitempty" csv:"quarter"`
	TimeRemaining      float64 `json:"time_remaining,omitempty" csv:"time_remaining"`
	WeatherTemperature float64 `json:"weather_temperature,omitempty" csv:"weather_temperature"`
	WindSpeed          float64 `json:"wind_speed,omitempty" csv:"wind_speed"`
}

// Outcome is the three-way result of a game. A tie is its own state rather
// than a null team identifier so it can never be confused with either side.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeTie  Outcome = "tie"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// EnrichedGame is a Game plus the analytical fields derived from it.
// All derived fields are pure functions of the embedded record.
type EnrichedGame struct {
	Game

	PointDifferential int     `json:"point_differential" csv:"point_differential"`
	Winner            Outcome `json:"winner" csv:"winner"`
	MarginOfVictory   int     `json:"margin_of_victory" csv:"margin_of_victory"`
	Closeness         string  `json:"game_closeness" csv:"game_closeness"`
	IsCompleted       bool    `json:"is_completed" csv:"is_completed"`

	Year        int    `json:"year" csv:"year"`
	Month       int    `json:"month" csv:"month"`
	DayOfWeek   int    `json:"day_of_week" csv:"day_of_week"`
	DayName     string `json:"day_name" csv:"day_name"`
	IsPrimeTime bool   `json:"is_prime_time" csv:"is_prime_time"`
	IsSunday    bool   `json:"is_sunday" csv:"is_sunday"`

	TotalPoints     int    `json:"total_points" csv:"total_points"`
	ScoringCategory string `json:"scoring_category" csv:"scoring_category"`
}

// WinnerTeamID resolves the winning team identifier. The second return is
// false for ties and for games whose score features were not computed.
func (g EnrichedGame) WinnerTeamID() (int, bool) {
	switch g.Winner {
	case OutcomeHome:
		return g.HomeTeamID, true
	case OutcomeAway:
		return g.AwayTeamID, true
	default:
		return 0, false
	}
}
