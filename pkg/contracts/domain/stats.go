package domain

// TeamStats holds per-team aggregates computed from completed games only.
// Home and away splits are kept alongside the combined, game-count weighted
// figures; PowerRanking is 1-based with 1 being the strongest team.
type TeamStats struct {
	TeamID int `json:"team_id" csv:"team_id" validate:"required,min=1"`

	// Home split
	HomeGames            int     `json:"home_games" csv:"home_games"`
	HomeWins             int     `json:"home_wins" csv:"home_wins"`
	AvgPointsScoredHome  float64 `json:"avg_points_scored_home" csv:"avg_points_scored_home"`
	TotalPointsHome      int     `json:"total_points_home" csv:"total_points_home"`
	StdPointsHome        float64 `json:"std_points_home" csv:"std_points_home"`
	AvgPointsAllowedHome float64 `json:"avg_points_allowed_home" csv:"avg_points_allowed_home"`
	AvgDifferentialHome  float64 `json:"avg_differential_home" csv:"avg_differential_home"`

	// Away split; differential is flipped so positive always favours us
	AwayGames            int     `json:"away_games" csv:"away_games"`
	AwayWins             int     `json:"away_wins" csv:"away_wins"`
	AvgPointsScoredAway  float64 `json:"avg_points_scored_away" csv:"avg_points_scored_away"`
	TotalPointsAway      int     `json:"total_points_away" csv:"total_points_away"`
	StdPointsAway        float64 `json:"std_points_away" csv:"std_points_away"`
	AvgPointsAllowedAway float64 `json:"avg_points_allowed_away" csv:"avg_points_allowed_away"`
	AvgDifferentialAway  float64 `json:"avg_differential_away" csv:"avg_differential_away"`

	// Combined
	TotalGames         int     `json:"total_games" csv:"total_games"`
	TotalWins          int     `json:"total_wins" csv:"total_wins"`
	TotalLosses        int     `json:"total_losses" csv:"total_losses"`
	WinPercentage      float64 `json:"win_percentage" csv:"win_percentage" validate:"min=0,max=1"`
	AvgPointsScored    float64 `json:"avg_points_scored" csv:"avg_points_scored"`
	AvgPointsAllowed   float64 `json:"avg_points_allowed" csv:"avg_points_allowed"`
	NetPoints          float64 `json:"net_points" csv:"net_points"`
	HomeFieldAdvantage float64 `json:"home_field_advantage" csv:"home_field_advantage"`
	PowerRanking       int     `json:"power_ranking" csv:"power_ranking" validate:"min=1"`
}
