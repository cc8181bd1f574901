package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/foxxdash/backend/src/database"
	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/processors"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

type fakeSource struct {
	rows    []models.RawRow
	err     error
	fetches int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context) ([]models.RawRow, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func salesRows() []models.RawRow {
	return []models.RawRow{
		{"Date eu": "2025-04-01 10:00:00", "Amount": "100", "Challenge": "10K", "Payment Method": "card", "Email": "a@x.com"},
		{"Date eu": "2025-04-02 11:00:00", "Amount": "50", "Challenge": "25K", "Payment Method": "crypto", "Email": "b@x.com"},
	}
}

func newTestService(t *testing.T, src *fakeSource) *dashboardServiceImpl {
	t.Helper()
	database.InitDB(":memory:")

	svc := NewDashboardService(
		database.DB,
		cache.New(time.Minute, time.Minute),
		map[string]RowSource{SourceSales: src},
		processors.NewSalesProcessor(),
		processors.NewBalanceProcessor(),
		processors.NewCohortProcessor(),
		time.Minute,
		time.Minute,
	).(*dashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetSalesSummaryFetchesAndCaches(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	summary, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CountSales)
	assert.InDelta(t, 150.0, summary.TotalSales, 1e-9)

	// Second call is served from cache without another fetch.
	_, err = svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, src.fetches)
}

func TestDistinctFiltersMissTheSummaryCache(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	all, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)

	filtered, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{Challenge: "10K"})
	require.NoError(t, err)

	assert.Equal(t, 2, all.CountSales)
	assert.Equal(t, 1, filtered.CountSales)
}

func TestFetchFailureFallsBackToSnapshot(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	// First call stores a snapshot.
	_, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)

	// Break the upstream and drop the memory cache.
	src.err = errors.New("upstream down")
	svc.Refresh()

	summary, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CountSales)
}

func TestFetchFailureWithoutSnapshotReturnsUnavailable(t *testing.T) {
	src := &fakeSource{err: errors.New("upstream down")}
	svc := newTestService(t, src)

	_, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestUnconfiguredSourceWithoutSnapshot(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	// No balance source is registered and nothing was uploaded.
	_, err := svc.GetBalanceSummary(context.Background(), models.BalanceFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
}

func TestStoreUploadBecomesActiveRowSet(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	id, err := svc.StoreUpload(SourceBalance, []models.RawRow{
		{"created_at": "2025-03-01 09:00:00", "net_balance_impact": "200", "currency": "usd"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	summary, err := svc.GetBalanceSummary(context.Background(), models.BalanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalTx)
	assert.InDelta(t, 200.0, summary.LastBalance, 1e-9)
}

func TestStoreUploadRejectsUnknownSource(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	_, err := svc.StoreUpload("inventory", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestRefreshForcesRefetch(t *testing.T) {
	src := &fakeSource{rows: salesRows()}
	svc := newTestService(t, src)

	_, err := svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)

	svc.Refresh()

	_, err = svc.GetSalesSummary(context.Background(), models.SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetches)
}

func TestCohortSummaryUsesSalesRows(t *testing.T) {
	rows := []models.RawRow{
		{"Date eu": "2025-03-05 10:00:00", "Amount": "10", "Email": "old@x.com"},
		{"Date eu": "2025-04-03 10:00:00", "Amount": "20", "Email": "old@x.com"},
		{"Date eu": "2025-04-04 10:00:00", "Amount": "30", "Email": "new@x.com"},
	}
	src := &fakeSource{rows: rows}
	svc := newTestService(t, src)

	summary, err := svc.GetCohortSummary(context.Background(), time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-04", summary.Month)
	assert.Equal(t, 1, summary.NewCount)
	assert.Equal(t, 1, summary.ReturningCount)
}
