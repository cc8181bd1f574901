// src/parsers/csv_parser.go
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/username/foxxdash/backend/src/models"
)

type csvRowParser struct{}

// NewCSVParser returns a RowParser for comma-separated ledger exports.
func NewCSVParser() RowParser {
	return &csvRowParser{}
}

func (p *csvRowParser) Parse(file io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(file)
	// The exports are loosely governed: ragged rows and stray quotes
	// must not abort the whole file.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	return RowsFromRecords(records), nil
}
