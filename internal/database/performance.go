package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

// PortfolioValue is cash balance plus the market value of every held share
// at its cached price. Symbols without a cache entry value at zero rather
// than erroring.
func (r *Repo) PortfolioValue(ctx context.Context, accountID *int64) (decimal.Decimal, error) {
	cash, err := r.CashBalance(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	market, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(h.shares * COALESCE(sp.price, 0)), 0)
		 FROM holdings h LEFT JOIN stock_prices sp ON h.symbol = sp.symbol`,
		"WHERE h.account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return cash.Add(market), nil
}

// CashFlow is a dated deposit/withdrawal total used by the performance
// summary.
type CashFlow struct {
	Date   string  `db:"date" json:"date"`
	Amount float64 `db:"amount" json:"amount"`
}

// CashFlows returns deposit and withdrawal totals grouped by date from
// since onward, oldest first.
func (r *Repo) CashFlows(ctx context.Context, accountID *int64, since string) ([]CashFlow, error) {
	query := `SELECT date, SUM(amount) AS amount FROM cash_movements
		WHERE type IN ('deposit', 'withdrawal')`
	args := []interface{}{}
	if accountID != nil {
		query += ` AND account_id = ?`
		args = append(args, *accountID)
	}
	query += ` AND date >= ? GROUP BY date ORDER BY date`
	args = append(args, since)

	flows := []CashFlow{}
	if err := r.db.SelectContext(ctx, &flows, query, args...); err != nil {
		return nil, err
	}
	return flows, nil
}

// NetInvested is deposits minus the magnitude of withdrawals. Withdrawals
// are stored negative, so a plain sum of the two movement types is exactly
// that figure.
func (r *Repo) NetInvested(ctx context.Context, accountID *int64) (decimal.Decimal, error) {
	return r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM cash_movements WHERE type IN ('deposit', 'withdrawal')`,
		"AND account_id = ?", accountID)
}

// Snapshot is an account's reconstructed state as of a date, built from the
// transaction log rather than current lots.
type Snapshot struct {
	PortfolioValue float64 `json:"portfolio_value"`
	CostBasis      float64 `json:"cost_basis"`
	CashBalance    float64 `json:"cash_balance"`
}

// HistoricalSnapshot replays transactions, dividends and cash movements up
// to targetDate. Historical holdings are valued at today's cached prices;
// the store keeps no per-day price history.
func (r *Repo) HistoricalSnapshot(ctx context.Context, accountID *int64, targetDate string) (Snapshot, error) {
	sumAt := func(base, filter string) (decimal.Decimal, error) {
		if accountID == nil {
			return r.sum(ctx, base+" date <= ?", targetDate)
		}
		return r.sum(ctx, base+" "+filter+" AND date <= ?", *accountID, targetDate)
	}

	movements, err := sumAt(`SELECT COALESCE(SUM(amount), 0) FROM cash_movements WHERE`, "account_id = ?")
	if err != nil {
		return Snapshot{}, err
	}
	dividends, err := sumAt(`SELECT COALESCE(SUM(amount), 0) FROM dividends WHERE`, "account_id = ?")
	if err != nil {
		return Snapshot{}, err
	}
	buys, err := sumAt(`SELECT COALESCE(SUM(total), 0) FROM transactions WHERE type = 'buy' AND`, "account_id = ?")
	if err != nil {
		return Snapshot{}, err
	}
	sells, err := sumAt(`SELECT COALESCE(SUM(total), 0) FROM transactions WHERE type = 'sell' AND`, "account_id = ?")
	if err != nil {
		return Snapshot{}, err
	}
	cash := movements.Add(dividends).Sub(buys).Add(sells)

	query := `SELECT symbol,
			SUM(CASE WHEN type = 'buy' THEN shares ELSE -shares END) AS shares,
			SUM(CASE WHEN type = 'buy' THEN total ELSE 0 END) AS cost_basis
		FROM transactions WHERE date <= ?`
	args := []interface{}{targetDate}
	if accountID != nil {
		query += ` AND account_id = ?`
		args = append(args, *accountID)
	}
	query += ` GROUP BY symbol HAVING shares > 0`

	var rows []struct {
		Symbol    string  `db:"symbol"`
		Shares    float64 `db:"shares"`
		CostBasis float64 `db:"cost_basis"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return Snapshot{}, err
	}

	market := decimal.Zero
	costBasis := decimal.Zero
	for _, h := range rows {
		// Uncached symbols value at zero; anything else failing here is
		// worth a warning but still degrades the same way.
		var price float64
		if err := r.db.GetContext(ctx, &price,
			`SELECT COALESCE(price, 0) FROM stock_prices WHERE symbol = ?`, h.Symbol); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				r.log.Warnf("snapshot price lookup failed for %s: %v", h.Symbol, err)
			}
			price = 0
		}
		market = market.Add(decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(price)))
		costBasis = costBasis.Add(decimal.NewFromFloat(h.CostBasis))
	}

	return Snapshot{
		PortfolioValue: cash.Add(market).InexactFloat64(),
		CostBasis:      costBasis.InexactFloat64(),
		CashBalance:    cash.InexactFloat64(),
	}, nil
}

// AllocationRow is one holding joined with its cached price and
// classification, raw material for the allocation breakdown.
type AllocationRow struct {
	Symbol     string   `db:"symbol" json:"symbol"`
	Shares     float64  `db:"shares" json:"shares"`
	Price      float64  `db:"price" json:"price"`
	StockName  *string  `db:"stock_name" json:"stock_name"`
	RoleName   *string  `db:"role_name" json:"role_name"`
	RoleColor  *string  `db:"role_color" json:"role_color"`
	ThemeName  *string  `db:"theme_name" json:"theme_name"`
	ThemeColor *string  `db:"theme_color" json:"theme_color"`
}

func (r *Repo) AllocationRows(ctx context.Context, accountID *int64) ([]AllocationRow, error) {
	query := `SELECT h.symbol, h.shares, COALESCE(sp.price, 0) AS price,
			sp.name AS stock_name,
			sr.name AS role_name, sr.color AS role_color,
			st.name AS theme_name, st.color AS theme_color
		FROM holdings h
		LEFT JOIN stock_prices sp ON h.symbol = sp.symbol
		LEFT JOIN stock_roles sr ON sp.role_id = sr.id
		LEFT JOIN stock_themes st ON sp.theme_id = st.id
		WHERE 1=1`
	args := []interface{}{}
	if accountID != nil {
		query += ` AND h.account_id = ?`
		args = append(args, *accountID)
	}

	rows := []AllocationRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// CashHistoryPoint is one step of the running-cash series.
type CashHistoryPoint struct {
	Date string  `json:"date"`
	Cash float64 `json:"cash"`
}

// CashHistory replays dated cash movements and dividends into a running
// cash series, one point per distinct date.
func (r *Repo) CashHistory(ctx context.Context, accountID *int64) ([]CashHistoryPoint, error) {
	query := `SELECT date, amount FROM cash_movements`
	args := []interface{}{}
	if accountID != nil {
		query += ` WHERE account_id = ?`
		args = append(args, *accountID)
	}
	query += ` UNION ALL SELECT date, amount FROM dividends`
	if accountID != nil {
		query += ` WHERE account_id = ?`
		args = append(args, *accountID)
	}
	query += ` ORDER BY date`

	var rows []struct {
		Date   string  `db:"date"`
		Amount float64 `db:"amount"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	running := decimal.Zero
	seen := map[string]bool{}
	history := []CashHistoryPoint{}
	for _, row := range rows {
		running = running.Add(decimal.NewFromFloat(row.Amount))
		if seen[row.Date] {
			continue
		}
		seen[row.Date] = true
		history = append(history, CashHistoryPoint{Date: row.Date, Cash: running.InexactFloat64()})
	}
	return history, nil
}

// Stats reports row counts per table for the admin surface.
func (r *Repo) Stats(ctx context.Context) (map[string]int64, error) {
	tables := map[string]string{
		"accounts":       "accounts",
		"holdings":       "holdings",
		"transactions":   "transactions",
		"prices":         "stock_prices",
		"dividends":      "dividends",
		"cash_movements": "cash_movements",
	}
	stats := make(map[string]int64, len(tables))
	for key, table := range tables {
		var n int64
		if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, err
		}
		stats[key] = n
	}
	return stats, nil
}
