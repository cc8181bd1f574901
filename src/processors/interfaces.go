package processors

import (
	"time"

	"github.com/username/foxxdash/backend/src/models"
)

// SalesProcessor aggregates the sales ledger. The reference time decides
// what "this month" means for the best-affiliate summary and the recent
// table; it is injected so results are deterministic under test.
type SalesProcessor interface {
	Aggregate(rows []models.RawRow, filter models.SalesFilter, now time.Time) models.SalesSummary
}

// BalanceProcessor aggregates the balance ledger.
type BalanceProcessor interface {
	Aggregate(rows []models.RawRow, filter models.BalanceFilter) models.BalanceSummary
}

// CohortProcessor classifies clients active in the reference month as new
// or returning. It always sees the FULL row set: cohort status depends on
// history outside any visible date window.
type CohortProcessor interface {
	Classify(rows []models.RawRow, ref time.Time) models.CohortSummary
}
