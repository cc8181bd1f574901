// src/parsers/tazapay/normalizer.go
// Normalizer for the balance ledger. Two schemas exist in the wild: the
// modern Tazapay payin export (named columns, a Status field that decides
// the sign of the balance impact) and the legacy generic ledger (snake_case
// columns with an explicit signed impact). The schema is classified once
// per row set, not re-sniffed per row.
package tazapay

import (
	"strings"

	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/utils"
)

// Schema identifies which export produced a balance row set.
type Schema int

const (
	SchemaLegacy Schema = iota
	SchemaModern
)

func (s Schema) String() string {
	if s == SchemaModern {
		return "modern"
	}
	return "legacy"
}

// modernMarkers are the columns only the Tazapay payin export carries.
var modernMarkers = []string{"Payin ID", "Invoice Amount", "Payin Created Date", "Status"}

// debitStatuses mark a payin status as a debit regardless of its exact wording.
var debitStatuses = []string{"refund", "chargeback", "payout", "withdraw"}

// DetectSchema classifies a row set by a single structural check on the
// first row that has any content.
func DetectSchema(rows []models.RawRow) Schema {
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		if r.First(modernMarkers...) != nil {
			return SchemaModern
		}
		return SchemaLegacy
	}
	return SchemaLegacy
}

// Normalize maps one raw balance-ledger row to its canonical shape using
// the given schema. A row is excluded (ok=false) only when no date
// candidate parses.
func Normalize(r models.RawRow, schema Schema) (models.BalanceRow, bool) {
	if schema == SchemaModern {
		return normalizeModern(r)
	}
	return normalizeLegacy(r)
}

func normalizeModern(r models.RawRow) (models.BalanceRow, bool) {
	// Received date wins over created date; either may be absent or broken.
	pd, ok := utils.ParseLooseDate(r["Payment Received Date"])
	if !ok {
		if pd, ok = utils.ParseLooseDate(r["Payin Created Date"]); !ok {
			return models.BalanceRow{}, false
		}
	}

	status := strings.ToLower(r.FirstString("", "Status"))
	invoiceAmount := utils.ParseLocaleFloat(r["Invoice Amount"])
	balanceAmount := utils.ParseLocaleFloat(r["Balance Amount"])
	amount := balanceAmount
	if amount == 0 {
		amount = invoiceAmount
	}

	// Impact rule: succeeded credits the balance, refund-like statuses
	// debit it, anything else is neutral but the row is kept for its
	// date/bank/country dimensions.
	var impact float64
	switch {
	case status == "succeeded":
		impact = amount
	case containsAny(status, debitStatuses):
		impact = -amount
	default:
		impact = 0
	}

	currency := r.FirstString("", "Balance Currency", "Invoice Currency")

	return models.BalanceRow{
		DateObj:        pd.Time,
		Date:           pd.ISO,
		Type:           typeFromImpact(impact),
		SourceObject:   "Tazapay Payin",
		SourceCurrency: currency,
		Impact:         impact,
		BankName:       r.FirstString("", "Bank Name"),
		// some exports write "Customer country" with a lowercase c
		CustomerCountry: r.FirstString("", "Customer Country", "Customer country", "customer_country"),
	}, true
}

func normalizeLegacy(r models.RawRow) (models.BalanceRow, bool) {
	pd, ok := utils.ParseLooseDate(r["created_at"])
	if !ok {
		if pd, ok = utils.ParseLooseDate(r["date"]); !ok {
			return models.BalanceRow{}, false
		}
	}

	// The legacy ledger names its signed impact three different ways over
	// its lifetime; the first non-zero one wins.
	impact := firstNonZero(
		utils.ParseLocaleFloat(r["net_balance_impact"]),
		utils.ParseLocaleFloat(r["impact"]),
		utils.ParseLocaleFloat(r["netBalanceImpact"]),
	)

	opType := strings.ToUpper(r.FirstString("", "operation_type"))
	if opType == "" {
		opType = typeFromImpact(impact)
	}

	return models.BalanceRow{
		DateObj:         pd.Time,
		Date:            pd.ISO,
		Type:            opType,
		SourceObject:    r.FirstString("Tazapay", "source_object", "sourceObject"),
		SourceCurrency:  r.FirstString("", "source_currency", "sourceCurrency"),
		Impact:          impact,
		BankName:        r.FirstString("", "bankName"),
		CustomerCountry: r.FirstString("", "customer_country", "customerCountry"),
	}, true
}

// NormalizeAll classifies the row set once and normalizes every row,
// dropping rows without a usable date.
func NormalizeAll(rows []models.RawRow) []models.BalanceRow {
	schema := DetectSchema(rows)
	out := make([]models.BalanceRow, 0, len(rows))
	for _, r := range rows {
		if row, ok := Normalize(r, schema); ok {
			out = append(out, row)
		}
	}
	return out
}

// typeFromImpact derives the operation type from the sign convention:
// positive (or zero) = credit, negative = debit.
func typeFromImpact(impact float64) string {
	if impact < 0 {
		return models.OperationDebit
	}
	return models.OperationCredit
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
