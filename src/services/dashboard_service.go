// backend/src/services/dashboard_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/foxxdash/backend/src/database"
	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/processors"
	"github.com/username/foxxdash/backend/src/utils"
)

// snapshotsToKeep bounds how many historical snapshots survive per source.
const snapshotsToKeep = 5

type dashboardServiceImpl struct {
	db         *sql.DB
	cache      *cache.Cache
	sources    map[string]RowSource
	sales      processors.SalesProcessor
	balance    processors.BalanceProcessor
	cohort     processors.CohortProcessor
	rowTTL     time.Duration
	summaryTTL time.Duration
	now        func() time.Time
}

// NewDashboardService wires the row sources, processors and caches together.
// Sources are keyed by SourceSales / SourceBalance; a missing source means
// that ledger is fed by uploads only.
func NewDashboardService(
	db *sql.DB,
	c *cache.Cache,
	sources map[string]RowSource,
	sales processors.SalesProcessor,
	balance processors.BalanceProcessor,
	cohort processors.CohortProcessor,
	rowTTL, summaryTTL time.Duration,
) DashboardService {
	return &dashboardServiceImpl{
		db:         db,
		cache:      c,
		sources:    sources,
		sales:      sales,
		balance:    balance,
		cohort:     cohort,
		rowTTL:     rowTTL,
		summaryTTL: summaryTTL,
		now:        time.Now,
	}
}

func rowCacheKey(source string) string { return "rows_" + source }

// rows returns the active row set for a source: memory cache first, then a
// fresh fetch, then the latest stored snapshot when the fetch fails.
func (s *dashboardServiceImpl) rows(ctx context.Context, source string) ([]models.RawRow, error) {
	if cached, found := s.cache.Get(rowCacheKey(source)); found {
		return cached.([]models.RawRow), nil
	}

	src, ok := s.sources[source]
	if !ok {
		return s.rowsFromSnapshot(source, ErrSourceNotConfigured)
	}

	fetched, err := src.Fetch(ctx)
	if err != nil {
		logger.L.Warn("Row fetch failed, falling back to stored snapshot",
			"source", source, "sourceName", src.Name(), "error", err)
		return s.rowsFromSnapshot(source, err)
	}

	s.cache.Set(rowCacheKey(source), fetched, s.rowTTL)

	snap := &database.Snapshot{Source: source, Origin: database.OriginNetwork, Rows: fetched}
	if err := database.SaveSnapshot(s.db, snap); err != nil {
		logger.L.Error("Failed to store snapshot", "source", source, "error", err)
	} else if err := database.PruneSnapshots(s.db, source, snapshotsToKeep); err != nil {
		logger.L.Warn("Failed to prune snapshots", "source", source, "error", err)
	}

	return fetched, nil
}

// rowsFromSnapshot replays the most recent stored row set. fetchErr is the
// upstream failure that forced the fallback.
func (s *dashboardServiceImpl) rowsFromSnapshot(source string, fetchErr error) ([]models.RawRow, error) {
	snap, err := database.LatestSnapshot(s.db, source)
	if err != nil {
		if errors.Is(err, database.ErrNoSnapshot) {
			if errors.Is(fetchErr, ErrSourceNotConfigured) {
				return nil, fmt.Errorf("%w: %s", ErrSourceNotConfigured, source)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, fetchErr)
		}
		return nil, fmt.Errorf("loading snapshot for %s: %w", source, err)
	}

	logger.L.Info("Serving rows from stored snapshot",
		"source", source, "snapshotID", snap.ID, "fetchedAt", snap.FetchedAt, "rows", len(snap.Rows))
	s.cache.Set(rowCacheKey(source), snap.Rows, s.rowTTL)
	return snap.Rows, nil
}

func (s *dashboardServiceImpl) GetSalesSummary(ctx context.Context, filter models.SalesFilter) (models.SalesSummary, error) {
	key, err := summaryCacheKey("sales_summary", filter)
	if err == nil {
		if cached, found := s.cache.Get(key); found {
			return cached.(models.SalesSummary), nil
		}
	}

	rows, err2 := s.rows(ctx, SourceSales)
	if err2 != nil {
		return models.EmptySalesSummary(), err2
	}

	summary := s.sales.Aggregate(rows, filter, s.now())
	if err == nil {
		s.cache.Set(key, summary, s.summaryTTL)
	}
	return summary, nil
}

func (s *dashboardServiceImpl) GetBalanceSummary(ctx context.Context, filter models.BalanceFilter) (models.BalanceSummary, error) {
	key, err := summaryCacheKey("balance_summary", filter)
	if err == nil {
		if cached, found := s.cache.Get(key); found {
			return cached.(models.BalanceSummary), nil
		}
	}

	rows, err2 := s.rows(ctx, SourceBalance)
	if err2 != nil {
		return models.EmptyBalanceSummary(), err2
	}

	summary := s.balance.Aggregate(rows, filter)
	if err == nil {
		s.cache.Set(key, summary, s.summaryTTL)
	}
	return summary, nil
}

func (s *dashboardServiceImpl) GetCohortSummary(ctx context.Context, ref time.Time) (models.CohortSummary, error) {
	key := fmt.Sprintf("cohort_summary_%s", ref.Format("2006-01"))
	if cached, found := s.cache.Get(key); found {
		return cached.(models.CohortSummary), nil
	}

	rows, err := s.rows(ctx, SourceSales)
	if err != nil {
		return models.CohortSummary{}, err
	}

	summary := s.cohort.Classify(rows, ref)
	s.cache.Set(key, summary, s.summaryTTL)
	return summary, nil
}

func (s *dashboardServiceImpl) StoreUpload(source string, rows []models.RawRow) (string, error) {
	if source != SourceSales && source != SourceBalance {
		return "", fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	snap := &database.Snapshot{Source: source, Origin: database.OriginUpload, Rows: rows}
	if err := database.SaveSnapshot(s.db, snap); err != nil {
		return "", fmt.Errorf("storing uploaded rows: %w", err)
	}
	if err := database.PruneSnapshots(s.db, source, snapshotsToKeep); err != nil {
		logger.L.Warn("Failed to prune snapshots after upload", "source", source, "error", err)
	}

	// The upload becomes the active row set immediately; stale summaries
	// for this ledger are dropped wholesale.
	s.Refresh()
	s.cache.Set(rowCacheKey(source), rows, s.rowTTL)

	logger.L.Info("Stored uploaded row set", "source", source, "snapshotID", snap.ID, "rows", len(rows))
	return snap.ID, nil
}

func (s *dashboardServiceImpl) Refresh() {
	s.cache.Flush()
	logger.L.Info("Dropped cached rows and summaries")
}

// summaryCacheKey derives a stable key from a filter value. A marshal
// failure disables caching for that call rather than failing it.
func summaryCacheKey(prefix string, filter any) (string, error) {
	etag, err := utils.GenerateETag(filter)
	if err != nil {
		return "", err
	}
	return prefix + "_" + etag, nil
}
