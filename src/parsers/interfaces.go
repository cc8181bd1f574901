package parsers

import (
	"io"

	"github.com/username/foxxdash/backend/src/models"
)

// RowParser turns one uploaded ledger file into loosely typed rows.
// Implementations keep no state between calls.
type RowParser interface {
	Parse(file io.Reader) ([]models.RawRow, error)
}
