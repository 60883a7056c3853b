package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	apperrors "nflpulse/internal/errors"
	"nflpulse/internal/pipeline"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store persists raw tables between the extraction and processing commands.
// Raw tables are written as UTF-8 CSV with a BOM so they open cleanly in
// Excel; the reader tolerates files with or without one.
type Store struct {
	logger *slog.Logger
}

// New creates a raw table store
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger.With(slog.String("component", "store"))}
}

// WriteRawTable writes raw rows to a CSV file. The header is the sorted
// union of all row keys so output is deterministic regardless of map order.
func (s *Store) WriteRawTable(path string, rows []pipeline.Row) error {
	header := rawHeader(rows)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create directory %s", dir), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create %s", path), err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("write BOM to %s", path), err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("write header to %s", path), err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, column := range header {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("write record to %s", path), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("flush %s", path), err)
	}

	s.logger.Info("wrote raw table",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Int("columns", len(header)))

	return nil
}

// ReadRawTable reads a CSV file into raw rows. The first record is the
// header; empty cells stay in the row as empty strings so schema detection
// still sees the column.
func (s *Store) ReadRawTable(path string) ([]pipeline.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("raw table %s", path))
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("read %s", path), err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("parse %s", path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]pipeline.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(pipeline.Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}

	s.logger.Info("read raw table",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// rawHeader returns the sorted union of all keys across rows
func rawHeader(rows []pipeline.Row) []string {
	seen := make(map[string]bool)
	var header []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
	}
	sort.Strings(header)
	return header
}
