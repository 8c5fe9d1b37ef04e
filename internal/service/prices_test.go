package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giraffe/internal/database"
)

// countingQuotes answers a fixed price and counts fetches.
type countingQuotes struct {
	fetches int64
}

func (c *countingQuotes) Quote(ctx context.Context, symbol string) (Quote, error) {
	atomic.AddInt64(&c.fetches, 1)
	return Quote{Price: decimal.NewFromInt(100), Name: symbol}, nil
}

func (c *countingQuotes) RangeReturn(ctx context.Context, symbol string, start, end time.Time) (decimal.Decimal, error) {
	return decimal.Zero, ErrNoQuote
}

func setupService(t *testing.T, logger *logrus.Logger) (*PriceService, *database.Repo, *countingQuotes) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, logger))

	repo := database.New(db, logger)
	quotes := &countingQuotes{}
	return NewPriceService(repo, quotes, logger), repo, quotes
}

func TestStart_ZeroIntervalDisablesRefresher(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	svc, _, quotes := setupService(t, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx, 0)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "price refresher disabled", hook.LastEntry().Message)

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&quotes.fetches))
}

func TestStart_PeriodicRefresh(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	svc, repo, quotes := setupService(t, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := repo.CreateAccount(ctx, "Main", "taxable", nil)
	require.NoError(t, err)
	_, err = repo.Buy(ctx, database.BuyParams{
		AccountID: a.ID, Symbol: "AAPL",
		Shares: decimal.NewFromInt(10), CostBasis: decimal.NewFromInt(900),
		PurchaseDate: "2024-01-15",
	})
	require.NoError(t, err)

	svc.Start(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&quotes.fetches) > 0
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	p, err := repo.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, p.Price, 1e-9)
}
