package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"nflpulse/pkg/contracts/domain"
)

const stageTeams = "clean_teams"

// TeamTable is the cleaned team artifact: canonical records plus the schema
// descriptor of the raw input they were derived from.
type TeamTable struct {
	Teams  []domain.Team
	Schema Schema
}

// TeamCleaner normalizes and deduplicates raw team reference rows.
// It performs no I/O; the returned table is its only effect.
type TeamCleaner struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewTeamCleaner creates a team cleaner. A nil logger falls back to the
// process default.
func NewTeamCleaner(logger *slog.Logger) *TeamCleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamCleaner{
		logger:   logger,
		validate: validator.New(),
	}
}

// Clean produces the canonical team table from raw rows. Rows without a
// coercible integer identifier are dropped; missing city, conference and
// division default to Unknown; conferences outside the enum are coerced to
// Unknown with the count logged. An input with no recognizable identifier
// column yields an empty table, not an error.
func (c *TeamCleaner) Clean(ctx context.Context, raw []Row) (TeamTable, error) {
	rowsIn.WithLabelValues(stageTeams).Add(float64(len(raw)))

	if len(raw) == 0 {
		c.logger.WarnContext(ctx, "no team rows to clean")
		return TeamTable{Teams: []domain.Team{}, Schema: Schema{}}, nil
	}

	schema := schemaOf(raw, teamFieldAliases)

	idColumn := findIDColumn(raw, teamIDPriority)
	if idColumn == "" {
		c.logger.WarnContext(ctx, "no team identifier column recognized, returning empty table",
			slog.Int("row_count", len(raw)))
		return TeamTable{Teams: []domain.Team{}, Schema: schema}, nil
	}

	deduped := dedupeByColumn(raw, idColumn)
	if removed := len(raw) - len(deduped); removed > 0 {
		rowsDropped.WithLabelValues(stageTeams, ReasonDuplicate).Add(float64(removed))
		c.logger.InfoContext(ctx, "removed duplicate teams",
			slog.String("id_column", idColumn),
			slog.Int("removed", removed))
	}

	teams := make([]domain.Team, 0, len(deduped))
	var badIDs, coercedConferences int

	for _, row := range deduped {
		canonical := canonicalize(row, teamFieldAliases)

		// When the only identifier column is the abbreviation Key the
		// dedup above still applies, but the record cannot satisfy the
		// integer id contract and is dropped here.
		id, ok := parseInt(canonical[FieldTeamID])
		if !ok {
			badIDs++
			continue
		}

		conference, valid := domain.NormalizeConference(strings.TrimSpace(canonical[FieldConference]))
		if !valid {
			coercedConferences++
		}

		team := domain.Team{
			ID:           id,
			Name:         strings.TrimSpace(canonical[FieldName]),
			City:         defaultUnknown(canonical[FieldCity]),
			Abbreviation: strings.TrimSpace(canonical[FieldAbbreviation]),
			Conference:   conference,
			Division:     defaultUnknown(canonical[FieldDivision]),
		}

		if err := c.validate.Struct(team); err != nil {
			badIDs++
			c.logger.WarnContext(ctx, "dropping team failing record validation",
				slog.Int("team_id", team.ID),
				slog.String("error", err.Error()))
			continue
		}

		teams = append(teams, team)
	}

	if badIDs > 0 {
		rowsDropped.WithLabelValues(stageTeams, ReasonBadID).Add(float64(badIDs))
		c.logger.InfoContext(ctx, "dropped teams with non-coercible identifiers",
			slog.Int("removed", badIDs))
	}
	if coercedConferences > 0 {
		valuesCoerced.WithLabelValues(stageTeams, FieldConference).Add(float64(coercedConferences))
		c.logger.WarnContext(ctx, "coerced invalid conferences to Unknown",
			slog.Int("count", coercedConferences))
	}

	rowsOut.WithLabelValues(stageTeams).Add(float64(len(teams)))
	c.logger.InfoContext(ctx, "team cleaning completed",
		slog.Int("raw_rows", len(raw)),
		slog.Int("clean_rows", len(teams)))

	return TeamTable{Teams: teams, Schema: schema}, nil
}

// defaultUnknown trims the value and substitutes Unknown when empty
func defaultUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Unknown"
	}
	return v
}
