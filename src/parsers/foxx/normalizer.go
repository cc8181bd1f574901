// src/parsers/foxx/normalizer.go
// Normalizer for the Foxx sales ledger. The sheet's column names drift
// between exports ("Date eu" vs "Date EU", "OrderId" vs "Order"), so every
// logical field resolves through an ordered candidate list; the first
// non-empty match wins. Numeric entries in the lists are legacy
// column-index fallbacks.
package foxx

import (
	"strings"

	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/utils"
)

var (
	dateKeys      = []string{"Date eu", "Date EU", "date eu", "Date", "DATE", "date", "9"}
	amountKeys    = []string{"Amount", "Montant", "amount", "Amount formated", "4"}
	challengeKeys = []string{"Challenge", "challenge", "3"}
	paymentKeys   = []string{"Payment Method", "Payment", "Paiement", "payment", "5"}
	orderKeys     = []string{"OrderId", "Order ID", "Order Id", "Order", "order"}
	emailKeys     = []string{"Email", "Client", "client"}
)

// Normalize maps one raw sales-ledger row to its canonical shape.
// A row is excluded (ok=false) if and only if no date candidate parses;
// every other field degrades gracefully: a missing amount becomes 0 and a
// missing text field becomes the "—" placeholder.
func Normalize(r models.RawRow) (models.SalesRow, bool) {
	pd, ok := utils.ParseLooseDate(r.First(dateKeys...))
	if !ok {
		return models.SalesRow{}, false
	}
	return models.SalesRow{
		DateObj:   pd.Time,
		Date:      pd.ISO,
		Amount:    utils.ParseLocaleFloat(r.First(amountKeys...)),
		Challenge: r.FirstString(models.Placeholder, challengeKeys...),
		Payment:   r.FirstString(models.Placeholder, paymentKeys...),
		OrderID:   r.FirstString(models.Placeholder, orderKeys...),
		Email:     r.FirstString(models.Placeholder, emailKeys...),
	}, true
}

// NormalizeAll normalizes a row set, dropping rows without a usable date.
func NormalizeAll(rows []models.RawRow) []models.SalesRow {
	out := make([]models.SalesRow, 0, len(rows))
	for _, r := range rows {
		if row, ok := Normalize(r); ok {
			out = append(out, row)
		}
	}
	return out
}

// IdentityKey returns the client identity used for cohort classification:
// the lower-cased, trimmed email (or legacy client column). Empty means the
// row carries no identity and is ignored by cohort counts.
func IdentityKey(r models.RawRow) string {
	return strings.ToLower(strings.TrimSpace(r.FirstString("", emailKeys...)))
}

// RowDate exposes the date fallback chain for callers that need the parsed
// date without a full normalization (cohort classification).
func RowDate(r models.RawRow) (utils.ParsedDate, bool) {
	return utils.ParseLooseDate(r.First(dateKeys...))
}
