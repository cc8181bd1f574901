// src/parsers/xlsx_parser.go
package parsers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/username/foxxdash/backend/src/models"
)

type xlsxRowParser struct{}

// NewXLSXParser returns a RowParser for spreadsheet (.xlsx) ledger exports.
// Only the first sheet is read; the ledgers are single-sheet exports.
func NewXLSXParser() RowParser {
	return &xlsxRowParser{}
}

func (p *xlsxRowParser) Parse(file io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows from sheet %q: %w", sheets[0], err)
	}
	return RowsFromRecords(records), nil
}
