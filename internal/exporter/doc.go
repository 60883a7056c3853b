// Package exporter writes the pipeline's output artifacts to the processed
// data directory.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Typed writers for the cleaned team table, the enriched game
// table, and the aggregated team statistics (CSV, JSON, and an xlsx power
// ranking workbook).
//
// Example usage:
//
//	exporter := exporter.NewTableExporter(paths)
//
//	if err := exporter.ExportCleanTeams(teams); err != nil {
//		return err
//	}
//	if err := exporter.ExportTeamStats(stats); err != nil {
//		return err
//	}
//	if err := exporter.ExportRankingsWorkbook(stats); err != nil {
//		return err
//	}
package exporter
