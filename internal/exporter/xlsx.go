package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"nflpulse/internal/config"
	"nflpulse/pkg/contracts/domain"
)

const rankingsSheet = "Power Rankings"

// ExportRankingsWorkbook writes an xlsx workbook with the power ranking
// table. Input must already be in ranking order; rows are written as-is.
func (e *TableExporter) ExportRankingsWorkbook(stats []domain.TeamStats) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", rankingsSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{
		"Rank", "Team ID", "Games", "Wins", "Losses",
		"Win %", "Points For", "Points Against", "Net Points", "Home Field Advantage",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(rankingsSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(rankingsSheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range stats {
		row := i + 2
		values := []interface{}{
			s.PowerRanking,
			s.TeamID,
			s.TotalGames,
			s.TotalWins,
			s.TotalLosses,
			s.WinPercentage,
			s.AvgPointsScored,
			s.AvgPointsAllowed,
			s.NetPoints,
			s.HomeFieldAdvantage,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(rankingsSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(rankingsSheet, "A", "J", 14); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	path := e.paths.ProcessedPath(config.TeamStatsXLSXFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
