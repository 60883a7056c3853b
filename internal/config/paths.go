package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for file locations used by the
// pipeline. It is built explicitly from configuration and passed down the
// call chain; nothing in this package keeps process-wide path state.
//
// Layout under the data directory:
//
//	data/
//	  raw/         raw extracted tables (nfl_teams.csv, nfl_games_<season>.csv)
//	  processed/   cleaned, enriched and ranked artifacts
//	logs/          application logs
type Paths struct {
	DataDir      string
	RawDir       string
	ProcessedDir string
	LogsDir      string
}

// Well-known artifact file names
const (
	RawTeamsFile      = "nfl_teams.csv"
	CleanTeamsFile    = "nfl_teams_clean.csv"
	CleanGamesFile    = "nfl_games_clean.csv"
	TeamStatsFile     = "nfl_team_stats.csv"
	TeamStatsJSONFile = "nfl_team_stats.json"
	TeamStatsXLSXFile = "nfl_team_stats.xlsx"
)

// NewPaths resolves the configured directories into an absolute path set
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	logsDir, err := filepath.Abs(cfg.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve logs dir: %w", err)
	}

	return &Paths{
		DataDir:      dataDir,
		RawDir:       filepath.Join(dataDir, "raw"),
		ProcessedDir: filepath.Join(dataDir, "processed"),
		LogsDir:      logsDir,
	}, nil
}

// EnsureDirectories creates every directory the pipeline writes to
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.RawDir, p.ProcessedDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RawPath returns the location of a raw table file
func (p *Paths) RawPath(name string) string {
	return filepath.Join(p.RawDir, name)
}

// ProcessedPath returns the location of a processed artifact
func (p *Paths) ProcessedPath(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// LogPath returns the location of a log file
func (p *Paths) LogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// RawGamesFile names the per-season raw games table
func RawGamesFile(season string) string {
	return fmt.Sprintf("nfl_games_%s.csv", season)
}
