package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giraffe/internal/database"
	"giraffe/internal/service"
)

// stubQuotes serves canned prices so handler tests never touch the network.
type stubQuotes struct {
	prices map[string]float64
}

func (s *stubQuotes) Quote(ctx context.Context, symbol string) (service.Quote, error) {
	p, ok := s.prices[symbol]
	if !ok {
		return service.Quote{}, service.ErrNoQuote
	}
	return service.Quote{Price: decimal.NewFromFloat(p), Name: symbol + " Inc."}, nil
}

func (s *stubQuotes) RangeReturn(ctx context.Context, symbol string, start, end time.Time) (decimal.Decimal, error) {
	if _, ok := s.prices[symbol]; !ok {
		return decimal.Zero, service.ErrNoQuote
	}
	return decimal.NewFromFloat(7.5), nil
}

func setupServer(t *testing.T, quotes *stubQuotes) (*gin.Engine, *database.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	require.NoError(t, database.Migrate(db, logger))
	repo := database.New(db, logger)

	if quotes == nil {
		quotes = &stubQuotes{prices: map[string]float64{}}
	}
	prices := service.NewPriceService(repo, quotes, logger)

	h := NewHandler(repo, prices, quotes, dbPath, logger)
	r := gin.New()
	h.Register(r)
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestAccountEndpoints(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"name": "Brokerage", "type": "taxable"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeMap(t, w)
	assert.Equal(t, "Brokerage", created["name"])

	// Name is required.
	w = doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"type": "taxable"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/accounts/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Account not found", decodeMap(t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/api/accounts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuyAndSellFlow(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"name": "Main", "type": "taxable"})
	require.Equal(t, http.StatusCreated, w.Code)
	accountID := decodeMap(t, w)["id"].(float64)

	w = doJSON(t, r, http.MethodPost, "/api/cash-movements", gin.H{
		"account_id": accountID, "type": "deposit", "amount": 10000, "date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/holdings", gin.H{
		"account_id": accountID, "symbol": "teststock", "shares": 10,
		"cost_basis": 1500, "purchase_date": "2024-01-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	holding := decodeMap(t, w)
	assert.Equal(t, "TESTSTOCK", holding["symbol"])
	holdingID := holding["id"].(float64)

	// Oversell is rejected without touching the lot.
	w = doJSON(t, r, http.MethodPost, "/api/transactions/sell", gin.H{
		"account_id": accountID, "holding_id": holdingID,
		"shares": 11, "price": 200, "date": "2024-03-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot sell more shares than held in lot", decodeMap(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/transactions/sell", gin.H{
		"account_id": accountID, "holding_id": holdingID,
		"shares": 5, "price": 200, "date": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sellTx := decodeMap(t, w)
	assert.InDelta(t, 250.0, sellTx["realized_gain"].(float64), 1e-9)

	w = doJSON(t, r, http.MethodGet, "/api/holdings/"+jsonID(holdingID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	lot := decodeMap(t, w)
	assert.InDelta(t, 5.0, lot["shares"].(float64), 1e-9)
	assert.InDelta(t, 750.0, lot["cost_basis"].(float64), 1e-9)

	// Account reflects the derived balances.
	w = doJSON(t, r, http.MethodGet, "/api/accounts/"+jsonID(accountID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	account := decodeMap(t, w)
	assert.InDelta(t, 9500.0, account["cash_balance"].(float64), 1e-9)
	assert.InDelta(t, 250.0, account["realized_gain"].(float64), 1e-9)
}

func TestCashMovementTypeValidation(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"name": "Main", "type": "taxable"})
	require.Equal(t, http.StatusCreated, w.Code)
	accountID := decodeMap(t, w)["id"].(float64)

	w = doJSON(t, r, http.MethodPost, "/api/cash-movements", gin.H{
		"account_id": accountID, "type": "donation", "amount": 100, "date": "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid type. Must be: deposit, withdrawal, fee, or interest", decodeMap(t, w)["error"])
}

func TestRoleEndpoints(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/roles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roles []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roles))
	assert.Len(t, roles, 4)

	w = doJSON(t, r, http.MethodPost, "/api/roles", gin.H{"name": "MEGA"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A role with this name already exists", decodeMap(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/roles", gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPerformanceEndpoint(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"SPY": 500}}
	r, repo := setupServer(t, quotes)
	ctx := context.Background()

	w := doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"name": "Main", "type": "taxable"})
	require.Equal(t, http.StatusCreated, w.Code)
	accountID := int64(decodeMap(t, w)["id"].(float64))

	_, err := repo.CreateCashMovement(ctx, accountID, "deposit", decimal.NewFromInt(10000), "2024-01-01", nil)
	require.NoError(t, err)
	_, err = repo.Buy(ctx, database.BuyParams{
		AccountID: accountID, Symbol: "AAPL",
		Shares: decimal.NewFromInt(10), CostBasis: decimal.NewFromInt(1500),
		PurchaseDate: "2024-01-15",
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpsertPrice(ctx, "AAPL", decimal.NewFromInt(200), "Apple Inc."))

	w = doJSON(t, r, http.MethodGet, "/api/performance?start_date=2024-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	perf := decodeMap(t, w)
	// 8500 cash + 2000 market on 10000 invested.
	assert.InDelta(t, 10500.0, perf["portfolio_value"].(float64), 1e-9)
	assert.InDelta(t, 5.0, perf["twr"].(float64), 1e-9)
	assert.InDelta(t, 7.5, perf["spy_return"].(float64), 1e-9)
	assert.NotEmpty(t, perf["cash_flows"])
}

func TestPerformanceEndpoint_BenchmarkDegrades(t *testing.T) {
	r, _ := setupServer(t, &stubQuotes{prices: map[string]float64{}})

	w := doJSON(t, r, http.MethodGet, "/api/performance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	perf := decodeMap(t, w)
	assert.Nil(t, perf["spy_return"])
}

func TestSnapshotRequiresDate(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/performance/snapshot", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields: date", decodeMap(t, w)["error"])
}

func TestPriceRefreshEndpoint(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 187.5}}
	r, repo := setupServer(t, quotes)
	ctx := context.Background()

	w := doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"name": "Main", "type": "taxable"})
	require.Equal(t, http.StatusCreated, w.Code)
	accountID := int64(decodeMap(t, w)["id"].(float64))

	_, err := repo.Buy(ctx, database.BuyParams{
		AccountID: accountID, Symbol: "AAPL",
		Shares: decimal.NewFromInt(10), CostBasis: decimal.NewFromInt(1500),
		PurchaseDate: "2024-01-15",
	})
	require.NoError(t, err)
	// A symbol the provider cannot price is skipped, not fatal.
	_, err = repo.Buy(ctx, database.BuyParams{
		AccountID: accountID, Symbol: "ZZZ",
		Shares: decimal.NewFromInt(1), CostBasis: decimal.NewFromInt(100),
		PurchaseDate: "2024-01-15",
	})
	require.NoError(t, err)

	w = doJSON(t, r, http.MethodPost, "/api/prices/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeMap(t, w)
	assert.Equal(t, "Refreshed 1 prices", body["message"])

	p, err := repo.GetPrice(ctx, "AAPL")
	require.NoError(t, err)
	assert.InDelta(t, 187.5, p.Price, 1e-9)
}

func TestFetchPriceEndpoint(t *testing.T) {
	r, _ := setupServer(t, &stubQuotes{prices: map[string]float64{"MSFT": 420}})

	w := doJSON(t, r, http.MethodGet, "/api/prices/fetch/MSFT", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/prices/fetch/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Symbol not found or price unavailable", decodeMap(t, w)["error"])
}

func TestSettingsEndpoints(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodPut, "/api/settings", gin.H{"key": "app_name", "value": "My Terminal"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	found := false
	for _, s := range settings {
		if s["key"] == "app_name" {
			assert.Equal(t, "My Terminal", s["value"])
			found = true
		}
	}
	assert.True(t, found)
}

func TestAdminStats(t *testing.T) {
	r, _ := setupServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeMap(t, w)
	assert.Contains(t, stats, "size_bytes")
	assert.Contains(t, stats, "accounts")
}

func jsonID(id float64) string {
	return strconv.FormatInt(int64(id), 10)
}
