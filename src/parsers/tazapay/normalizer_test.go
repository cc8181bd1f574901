package tazapay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/foxxdash/backend/src/models"
)

func TestDetectSchema(t *testing.T) {
	modern := []models.RawRow{{"Payin ID": "py_123", "Status": "succeeded"}}
	legacy := []models.RawRow{{"created_at": "2025-01-01", "net_balance_impact": "50"}}

	assert.Equal(t, SchemaModern, DetectSchema(modern))
	assert.Equal(t, SchemaLegacy, DetectSchema(legacy))
	assert.Equal(t, SchemaLegacy, DetectSchema(nil))
	// empty leading rows are skipped before the structural check
	assert.Equal(t, SchemaModern, DetectSchema([]models.RawRow{{}, {"Invoice Amount": "10"}}))
}

func TestNormalizeModern_Succeeded(t *testing.T) {
	row, ok := Normalize(models.RawRow{
		"Payin ID":              "py_1",
		"Status":                "succeeded",
		"Payment Received Date": "10/11/2025 09:48",
		"Balance Amount":        "90,5",
		"Invoice Amount":        "100",
		"Balance Currency":      "USD",
		"Bank Name":             "Test Bank",
		"Customer Country":      "fr",
	}, SchemaModern)
	require.True(t, ok)
	assert.Equal(t, "2025-11-10", row.Date)
	assert.Equal(t, 90.5, row.Impact, "balance amount wins over invoice amount")
	assert.Equal(t, models.OperationCredit, row.Type)
	assert.Equal(t, "Tazapay Payin", row.SourceObject)
	assert.Equal(t, "USD", row.SourceCurrency)
	assert.Equal(t, "Test Bank", row.BankName)
	assert.Equal(t, "fr", row.CustomerCountry)
}

func TestNormalizeModern_InvoiceAmountFallback(t *testing.T) {
	row, ok := Normalize(models.RawRow{
		"Payin ID":           "py_2",
		"Status":             "succeeded",
		"Payin Created Date": "01/11/2025",
		"Invoice Amount":     "75",
	}, SchemaModern)
	require.True(t, ok)
	assert.Equal(t, 75.0, row.Impact, "invoice amount used when balance amount is absent")
}

func TestNormalizeModern_DebitStatuses(t *testing.T) {
	for _, status := range []string{"refunded", "partial_refund", "chargeback", "payout.completed", "withdrawal"} {
		row, ok := Normalize(models.RawRow{
			"Payin ID":           "py_3",
			"Status":             status,
			"Payin Created Date": "02/11/2025",
			"Balance Amount":     "40",
		}, SchemaModern)
		require.True(t, ok, status)
		assert.Equal(t, -40.0, row.Impact, status)
		assert.Equal(t, models.OperationDebit, row.Type, status)
	}
}

func TestNormalizeModern_NeutralStatusKeepsRow(t *testing.T) {
	row, ok := Normalize(models.RawRow{
		"Payin ID":           "py_4",
		"Status":             "pending",
		"Payin Created Date": "03/11/2025",
		"Balance Amount":     "40",
		"Bank Name":          "Other Bank",
	}, SchemaModern)
	require.True(t, ok, "neutral statuses keep the row for its other dimensions")
	assert.Equal(t, 0.0, row.Impact)
	assert.Equal(t, models.OperationCredit, row.Type)
	assert.Equal(t, "Other Bank", row.BankName)
}

func TestNormalizeModern_ReceivedDateWinsOverCreated(t *testing.T) {
	row, ok := Normalize(models.RawRow{
		"Payin ID":              "py_5",
		"Status":                "succeeded",
		"Payment Received Date": "05/11/2025",
		"Payin Created Date":    "01/11/2025",
		"Invoice Amount":        "10",
	}, SchemaModern)
	require.True(t, ok)
	assert.Equal(t, "2025-11-05", row.Date)
}

func TestNormalizeModern_DropsRowWithoutDate(t *testing.T) {
	_, ok := Normalize(models.RawRow{"Payin ID": "py_6", "Status": "succeeded"}, SchemaModern)
	assert.False(t, ok)
}

func TestNormalizeLegacy(t *testing.T) {
	row, ok := Normalize(models.RawRow{
		"created_at":         "2025-03-05 12:00:00",
		"net_balance_impact": "-120",
		"operation_type":     "debit",
		"source_object":      "Transfer",
		"source_currency":    "EUR",
	}, SchemaLegacy)
	require.True(t, ok)
	assert.Equal(t, "2025-03-05", row.Date)
	assert.Equal(t, -120.0, row.Impact)
	assert.Equal(t, "DEBIT", row.Type, "explicit operation type is uppercased")
	assert.Equal(t, "Transfer", row.SourceObject)
	assert.Equal(t, "EUR", row.SourceCurrency)
}

func TestNormalizeLegacy_ImpactFieldFallback(t *testing.T) {
	row, ok := Normalize(models.RawRow{
		"created_at":         "2025-03-06",
		"net_balance_impact": "0",
		"impact":             "55",
	}, SchemaLegacy)
	require.True(t, ok)
	assert.Equal(t, 55.0, row.Impact, "zero impact falls through to the next field")
}

func TestNormalizeLegacy_TypeDerivedFromSign(t *testing.T) {
	row, ok := Normalize(models.RawRow{"created_at": "2025-03-07", "impact": "-5"}, SchemaLegacy)
	require.True(t, ok)
	assert.Equal(t, models.OperationDebit, row.Type)

	row, ok = Normalize(models.RawRow{"created_at": "2025-03-07", "impact": "5"}, SchemaLegacy)
	require.True(t, ok)
	assert.Equal(t, models.OperationCredit, row.Type)

	row, ok = Normalize(models.RawRow{"created_at": "2025-03-07"}, SchemaLegacy)
	require.True(t, ok)
	assert.Equal(t, models.OperationCredit, row.Type, "zero impact counts as credit")
	assert.Equal(t, "Tazapay", row.SourceObject, "legacy default source object")
}
