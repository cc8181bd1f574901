// src/parsers/factory.go
package parsers

import (
	"fmt"
	"strings"
)

// GetParser picks the RowParser for an uploaded file by extension.
func GetParser(filename string) (RowParser, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return NewCSVParser(), nil
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for file: %s", filename)
	}
}
