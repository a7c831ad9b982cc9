// Package parsers provides CSV ingestion for the two engine inputs: bank
// statement transactions and ledger candidate entries.
//
// The parsers tolerate the messiness of real exports: header aliases, varied
// date formats, currency symbols in amounts. A malformed amount or date does
// NOT drop the row; the record loads with its validity flag cleared so the
// engine can surface the problem as a diagnostic factor during scoring.
// Only structural problems (missing required columns, unreadable file) fail
// the parse.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"bank-matching-engine/pkg/errors"
	"bank-matching-engine/pkg/logger"
)

// ParseStats summarizes one parsing run.
type ParseStats struct {
	TotalLines     int `json:"total_lines"`
	ParsedRecords  int `json:"parsed_records"`
	InvalidFields  int `json:"invalid_fields"`  // records loaded with cleared validity flags
	SkippedRecords int `json:"skipped_records"` // records dropped entirely (e.g. missing ID)

	// Errors collects per-record problems worth reporting to the operator.
	Errors []*errors.EngineError `json:"errors,omitempty"`
}

// addError records a per-record problem, bounded to keep pathological files
// from ballooning memory.
func (ps *ParseStats) addError(err *errors.EngineError) {
	const maxErrors = 100
	if len(ps.Errors) < maxErrors {
		ps.Errors = append(ps.Errors, err)
	}
}

// columnMap resolves logical column names to CSV field indexes.
type columnMap map[string]int

// get returns the field value for a logical column, or "" when the column is
// absent or the row is short.
func (cm columnMap) get(row []string, column string) string {
	idx, ok := cm[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// buildColumnMap maps logical column names onto the header, honoring
// aliases. Header comparison is case-insensitive.
func buildColumnMap(header []string, columns []string, aliases map[string]string) columnMap {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		normalized[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cm := make(columnMap, len(columns))
	for _, col := range columns {
		if idx, ok := normalized[strings.ToLower(col)]; ok {
			cm[col] = idx
		}
	}
	for alias, col := range aliases {
		if _, have := cm[col]; have {
			continue
		}
		if idx, ok := normalized[strings.ToLower(alias)]; ok {
			cm[col] = idx
		}
	}
	return cm
}

// missingColumns returns required columns the header did not provide.
func missingColumns(cm columnMap, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := cm[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// forEachRecord opens the file and invokes fn for every data row. The header
// (or a synthesized positional one) is resolved to a columnMap first.
func forEachRecord(
	path string,
	delimiter rune,
	hasHeader bool,
	columns []string,
	required []string,
	aliases map[string]string,
	log logger.Logger,
	fn func(line int, cm columnMap, row []string),
) (*ParseStats, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // tolerate ragged rows, handled per field

	stats := &ParseStats{}
	line := 0
	var cm columnMap

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			stats.addError(errors.ParseError(errors.CodeInvalidFormat, path, line, "", "", err))
			stats.SkippedRecords++
			continue
		}

		if cm == nil {
			if hasHeader {
				cm = buildColumnMap(row, columns, aliases)
			} else {
				cm = positionalColumnMap(columns)
			}
			if missing := missingColumns(cm, required); len(missing) > 0 {
				return nil, errors.ParseError(
					errors.CodeMissingColumn, path, line, strings.Join(missing, ","), "", nil)
			}
			if hasHeader {
				continue
			}
		}

		stats.TotalLines++
		fn(line, cm, row)
	}

	log.WithFields(logger.Fields{
		"file":    path,
		"lines":   stats.TotalLines,
		"parsed":  stats.ParsedRecords,
		"invalid": stats.InvalidFields,
		"skipped": stats.SkippedRecords,
	}).Debug("csv parse completed")

	return stats, nil
}

// positionalColumnMap assigns columns to field positions in declaration
// order, for headerless files.
func positionalColumnMap(columns []string) columnMap {
	cm := make(columnMap, len(columns))
	for i, col := range columns {
		cm[col] = i
	}
	return cm
}

// validateParserConfig checks the fields shared by both parser configs.
func validateParserConfig(delimiter rune, columns map[string]string) error {
	if delimiter == 0 {
		return fmt.Errorf("delimiter cannot be empty")
	}
	for name, value := range columns {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s column name cannot be empty", name)
		}
	}
	return nil
}
