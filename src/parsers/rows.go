// src/parsers/rows.go
package parsers

import (
	"strconv"
	"strings"

	"github.com/username/foxxdash/backend/src/models"
)

// RowsFromRecords materializes tabular records into RawRows. The first
// record is the header row. Every cell is keyed both by its trimmed header
// and by its 0-based column index as a string, so normalizer fallback
// chains can name either. Records shorter than the header get empty values
// for the missing cells; fully empty records are skipped.
func RowsFromRecords(records [][]string) []models.RawRow {
	if len(records) == 0 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(models.RawRow, 2*len(headers))
		for i, h := range headers {
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			if h != "" {
				row[h] = cell
			}
			row[strconv.Itoa(i)] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

// RowsFromValues is RowsFromRecords for the Google Sheets values payload,
// whose cells arrive as untyped JSON scalars.
func RowsFromValues(values [][]any) []models.RawRow {
	if len(values) == 0 {
		return nil
	}
	records := make([][]string, 0, len(values))
	for _, rowVals := range values {
		record := make([]string, len(rowVals))
		for i, v := range rowVals {
			record[i] = cellString(v)
		}
		records = append(records, record)
	}
	return RowsFromRecords(records)
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return ""
	}
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
