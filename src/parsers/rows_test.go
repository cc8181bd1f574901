package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsFromRecords(t *testing.T) {
	records := [][]string{
		{"Date eu", "Amount", ""},
		{"16/04/2025", "329,4", "extra"},
		{"", "", ""},
		{"17/04/2025", "100"},
	}
	rows := RowsFromRecords(records)
	require.Len(t, rows, 2, "blank record should be skipped")

	assert.Equal(t, "16/04/2025", rows[0]["Date eu"])
	assert.Equal(t, "329,4", rows[0]["Amount"])
	// every cell is also reachable by column index
	assert.Equal(t, "16/04/2025", rows[0]["0"])
	assert.Equal(t, "extra", rows[0]["2"])
	// short record: missing cell present as empty under its index key
	assert.Equal(t, "", rows[1]["2"])
}

func TestRowsFromValues(t *testing.T) {
	values := [][]any{
		{"Email", "Amount"},
		{"a@x.com", float64(120)},
		{"b@x.com", "99,9"},
	}
	rows := RowsFromValues(values)
	require.Len(t, rows, 2)
	assert.Equal(t, "120", rows[0]["Amount"])
	assert.Equal(t, "99,9", rows[1]["Amount"])
}

func TestCSVParser_QuotedFields(t *testing.T) {
	csv := "Status,Bank Name,Invoice Amount\n" +
		"succeeded,\"Bank, of Test\",\"1 234,56\"\n"
	rows, err := NewCSVParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bank, of Test", rows[0]["Bank Name"])
	assert.Equal(t, "1 234,56", rows[0]["Invoice Amount"])
}

func TestCSVParser_RaggedRows(t *testing.T) {
	csv := "A,B,C\n1,2,3\n4,5\n"
	rows, err := NewCSVParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1]["C"])
}

func TestGetParser(t *testing.T) {
	p, err := GetParser("ledger.CSV")
	require.NoError(t, err)
	assert.NotNil(t, p)

	p, err = GetParser("ledger.xlsx")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = GetParser("ledger.pdf")
	assert.Error(t, err)
}
