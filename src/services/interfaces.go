package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/foxxdash/backend/src/models"
)

// Ledger source names, used as snapshot and cache keys.
const (
	SourceSales   = "sales"
	SourceBalance = "balance"
)

var (
	// ErrSourceUnavailable: the upstream fetch failed and no stored
	// snapshot exists to fall back on.
	ErrSourceUnavailable = errors.New("row source unavailable")

	// ErrSourceNotConfigured: the deployment has no upstream configured
	// for the source, so only uploads can feed it.
	ErrSourceNotConfigured = errors.New("row source not configured")

	// ErrUnknownSource: the caller named a source that does not exist.
	ErrUnknownSource = errors.New("unknown ledger source")
)

// RowSource supplies an ordered sequence of raw ledger rows on demand.
type RowSource interface {
	// Name labels the source in logs and errors.
	Name() string
	Fetch(ctx context.Context) ([]models.RawRow, error)
}

// DashboardService is the surface the HTTP handlers talk to. Summary calls
// are read-only and safe to repeat; row sets and computed summaries are
// cached internally.
type DashboardService interface {
	GetSalesSummary(ctx context.Context, filter models.SalesFilter) (models.SalesSummary, error)
	GetBalanceSummary(ctx context.Context, filter models.BalanceFilter) (models.BalanceSummary, error)
	GetCohortSummary(ctx context.Context, ref time.Time) (models.CohortSummary, error)

	// StoreUpload persists an uploaded row set as the active snapshot for
	// a source and returns the snapshot ID.
	StoreUpload(source string, rows []models.RawRow) (string, error)

	// Refresh drops every cached row set and summary so the next request
	// refetches from upstream.
	Refresh()
}
