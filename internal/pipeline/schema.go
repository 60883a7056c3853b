package pipeline

import (
	"fmt"
	"strings"
)

// Row is a single raw record: an arbitrary superset of recognized fields as
// delivered by the extraction client or the raw table store. Keys are the
// upstream column names, values their unparsed string form.
type Row map[string]string

// Canonical team fields
const (
	FieldTeamID       = "team_id"
	FieldName         = "name"
	FieldCity         = "city"
	FieldAbbreviation = "abbreviation"
	FieldConference   = "conference"
	FieldDivision     = "division"
)

// Canonical game fields
const (
	FieldGameID             = "game_id"
	FieldSeason             = "season"
	FieldSeasonType         = "season_type"
	FieldWeek               = "week"
	FieldDate               = "date"
	FieldDateTime           = "datetime"
	FieldHomeTeamID         = "home_team_id"
	FieldAwayTeamID         = "away_team_id"
	FieldHomeScore          = "home_score"
	FieldAwayScore          = "away_score"
	FieldStatus             = "status"
	FieldQuarter            = "quarter"
	FieldTimeRemaining      = "time_remaining"
	FieldWeatherTemperature = "weather_temperature"
	FieldWindSpeed          = "wind_speed"
)

// teamFieldAliases maps known upstream team column variants to canonical
// names. Canonical names map to themselves so cleaning already-cleaned
// input is a no-op.
var teamFieldAliases = map[string]string{
	"TeamID":       FieldTeamID,
	"Name":         FieldName,
	"City":         FieldCity,
	"Key":          FieldAbbreviation,
	"Conference":   FieldConference,
	"Division":     FieldDivision,

	FieldTeamID:       FieldTeamID,
	FieldName:         FieldName,
	FieldCity:         FieldCity,
	FieldAbbreviation: FieldAbbreviation,
	FieldConference:   FieldConference,
	FieldDivision:     FieldDivision,
}

// teamIDPriority lists the identifier columns tried in order when
// deduplicating raw team rows.
var teamIDPriority = []string{"TeamID", FieldTeamID, "Key"}

// gameFieldAliases maps known upstream game column variants to canonical
// names, canonical names included.
var gameFieldAliases = map[string]string{
	"GameID":               FieldGameID,
	"Season":               FieldSeason,
	"SeasonType":           FieldSeasonType,
	"Week":                 FieldWeek,
	"Date":                 FieldDate,
	"DateTime":             FieldDateTime,
	"HomeTeamID":           FieldHomeTeamID,
	"AwayTeamID":           FieldAwayTeamID,
	"HomeScore":            FieldHomeScore,
	"AwayScore":            FieldAwayScore,
	"Status":               FieldStatus,
	"Quarter":              FieldQuarter,
	"TimeRemainingMinutes": FieldTimeRemaining,
	"Temperature":          FieldWeatherTemperature,
	"WindSpeed":            FieldWindSpeed,

	FieldGameID:             FieldGameID,
	FieldSeason:             FieldSeason,
	FieldSeasonType:         FieldSeasonType,
	FieldWeek:               FieldWeek,
	FieldDate:               FieldDate,
	FieldDateTime:           FieldDateTime,
	FieldHomeTeamID:         FieldHomeTeamID,
	FieldAwayTeamID:         FieldAwayTeamID,
	FieldHomeScore:          FieldHomeScore,
	FieldAwayScore:          FieldAwayScore,
	FieldStatus:             FieldStatus,
	FieldQuarter:            FieldQuarter,
	FieldTimeRemaining:      FieldTimeRemaining,
	FieldWeatherTemperature: FieldWeatherTemperature,
	FieldWindSpeed:          FieldWindSpeed,
}

// gameIDPriority lists the identifier columns tried in order when
// deduplicating raw game rows.
var gameIDPriority = []string{"GameID", FieldGameID}

func init() {
	// Alias tables are fixed at compile time; a malformed entry is a
	// programming error, so fail loudly at load rather than per call.
	mustValidateAliases("team", teamFieldAliases)
	mustValidateAliases("game", gameFieldAliases)
}

func mustValidateAliases(kind string, aliases map[string]string) {
	for variant, canonical := range aliases {
		if strings.TrimSpace(variant) == "" || strings.TrimSpace(canonical) == "" {
			panic(fmt.Sprintf("pipeline: empty %s field alias entry %q -> %q", kind, variant, canonical))
		}
		if _, ok := aliases[canonical]; !ok {
			panic(fmt.Sprintf("pipeline: %s alias %q targets unmapped canonical field %q", kind, variant, canonical))
		}
		if aliases[canonical] != canonical {
			panic(fmt.Sprintf("pipeline: canonical %s field %q must map to itself", kind, canonical))
		}
	}
}

// Schema describes which canonical fields were present anywhere in a raw
// table. It is computed once per table so downstream stages can plan which
// derived features are computable without re-checking every row.
type Schema map[string]bool

// Has reports whether the canonical field was present in the source table
func (s Schema) Has(field string) bool {
	return s[field]
}

// schemaOf computes the canonical field set for a raw table: the union of
// all row keys after alias resolution.
func schemaOf(rows []Row, aliases map[string]string) Schema {
	schema := make(Schema)
	for _, row := range rows {
		for key := range row {
			if canonical, ok := aliases[key]; ok {
				schema[canonical] = true
			}
		}
	}
	return schema
}

// canonicalize renames recognized keys of a raw row to their canonical names
// and drops unrecognized ones. When both a variant and its canonical name are
// present the canonical value wins.
func canonicalize(row Row, aliases map[string]string) Row {
	out := make(Row, len(row))
	for key, value := range row {
		canonical, ok := aliases[key]
		if !ok {
			continue
		}
		if key != canonical {
			if _, exists := row[canonical]; exists {
				continue
			}
		}
		out[canonical] = value
	}
	return out
}

// findIDColumn returns the first identifier column from the priority list
// that appears in any row of the table, or "" when none does.
func findIDColumn(rows []Row, priority []string) string {
	for _, candidate := range priority {
		for _, row := range rows {
			if _, ok := row[candidate]; ok {
				return candidate
			}
		}
	}
	return ""
}

// dedupeByColumn keeps the first occurrence of each value of the given
// column, preserving input order. Rows missing the column are kept.
func dedupeByColumn(rows []Row, column string) []Row {
	seen := make(map[string]bool, len(rows))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		value, ok := row[column]
		if ok {
			if seen[value] {
				continue
			}
			seen[value] = true
		}
		out = append(out, row)
	}
	return out
}
