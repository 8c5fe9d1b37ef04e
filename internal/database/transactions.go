package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"giraffe/internal/ledger"
	"giraffe/internal/models"
)

const transactionColumns = `t.id, t.account_id, t.holding_id, t.type, t.symbol, t.shares,
	t.price, t.total, t.date, t.notes, t.realized_gain, t.created_at, a.name AS account_name`

// TransactionFilter narrows ListTransactions. Zero values mean no filter.
type TransactionFilter struct {
	AccountID *int64
	Type      string
	Symbol    string
}

func (r *Repo) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t JOIN accounts a ON t.account_id = a.id WHERE 1=1`
	args := []interface{}{}
	if f.AccountID != nil {
		query += ` AND t.account_id = ?`
		args = append(args, *f.AccountID)
	}
	if f.Type != "" {
		query += ` AND t.type = ?`
		args = append(args, f.Type)
	}
	if f.Symbol != "" {
		query += ` AND t.symbol = ?`
		args = append(args, strings.ToUpper(f.Symbol))
	}
	query += ` ORDER BY t.date DESC, t.id DESC`

	txs := []models.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *Repo) GetTransaction(ctx context.Context, id int64) (models.Transaction, error) {
	var t models.Transaction
	err := r.db.GetContext(ctx, &t,
		`SELECT `+transactionColumns+`
		 FROM transactions t JOIN accounts a ON t.account_id = a.id WHERE t.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

// TransactionParams describes a manually entered buy or sell, not tied to
// lot accounting.
type TransactionParams struct {
	AccountID int64
	HoldingID *int64
	Type      string
	Symbol    string
	Shares    decimal.Decimal
	Price     decimal.Decimal
	Date      string
	Notes     *string
}

func (r *Repo) CreateTransaction(ctx context.Context, p TransactionParams) (models.Transaction, error) {
	total := p.Shares.Mul(p.Price)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (account_id, holding_id, type, symbol, shares, price, total, date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AccountID, p.HoldingID, p.Type, strings.ToUpper(p.Symbol),
		p.Shares.InexactFloat64(), p.Price.InexactFloat64(), total.InexactFloat64(), p.Date, p.Notes)
	if err != nil {
		return models.Transaction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}
	return r.GetTransaction(ctx, id)
}

// UpdateTransaction edits a transaction in place. When the edited row is a
// buy tied to a lot, the lot is rewritten in the same database transaction
// so the two views of the purchase stay consistent: shares, cost basis
// (shares x price), symbol and purchase date all follow the edit.
func (r *Repo) UpdateTransaction(ctx context.Context, id int64, txType, symbol string, shares, price decimal.Decimal, date string, notes *string) (models.Transaction, error) {
	upper := strings.ToUpper(symbol)
	total := shares.Mul(price)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET type = ?, symbol = ?, shares = ?, price = ?, total = ?, date = ?, notes = ?
		 WHERE id = ?`,
		txType, upper, shares.InexactFloat64(), price.InexactFloat64(), total.InexactFloat64(), date, notes, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Transaction{}, ErrNotFound
	}

	var holdingID sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT holding_id FROM transactions WHERE id = ?`, id).Scan(&holdingID); err != nil {
		return models.Transaction{}, err
	}
	if txType == models.TxBuy && holdingID.Valid {
		if _, err := tx.ExecContext(ctx,
			`UPDATE holdings SET symbol = ?, shares = ?, cost_basis = ?, purchase_date = ? WHERE id = ?`,
			upper, shares.InexactFloat64(), total.InexactFloat64(), date, holdingID.Int64); err != nil {
			return models.Transaction{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, err
	}
	return r.GetTransaction(ctx, id)
}

func (r *Repo) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SellParams describes a sale out of a specific lot.
type SellParams struct {
	AccountID int64
	HoldingID int64
	Shares    decimal.Decimal
	Price     decimal.Decimal
	Date      string
	Notes     *string
}

// Sell executes the one genuinely stateful operation: appending the sell
// transaction (with its realized gain) and shrinking or deleting the lot,
// atomically. Oversells are rejected with no state change.
func (r *Repo) Sell(ctx context.Context, p SellParams) (models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback()

	var lot struct {
		Symbol    string  `db:"symbol"`
		Shares    float64 `db:"shares"`
		CostBasis float64 `db:"cost_basis"`
	}
	err = tx.GetContext(ctx, &lot,
		`SELECT symbol, shares, cost_basis FROM holdings WHERE id = ?`, p.HoldingID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	outcome, err := ledger.Sell(
		decimal.NewFromFloat(lot.Shares),
		decimal.NewFromFloat(lot.CostBasis),
		p.Shares, p.Price)
	if err != nil {
		return models.Transaction{}, err
	}

	total := p.Shares.Mul(p.Price)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (account_id, holding_id, type, symbol, shares, price, total, date, notes, realized_gain)
		 VALUES (?, ?, 'sell', ?, ?, ?, ?, ?, ?, ?)`,
		p.AccountID, p.HoldingID, lot.Symbol, p.Shares.InexactFloat64(), p.Price.InexactFloat64(),
		total.InexactFloat64(), p.Date, p.Notes, outcome.RealizedGain.InexactFloat64())
	if err != nil {
		return models.Transaction{}, err
	}
	txID, err := res.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}

	if outcome.LotClosed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE id = ?`, p.HoldingID); err != nil {
			return models.Transaction{}, err
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE holdings SET shares = ?, cost_basis = ? WHERE id = ?`,
			outcome.RemainingLot.Shares.InexactFloat64(),
			outcome.RemainingLot.CostBasis.InexactFloat64(), p.HoldingID); err != nil {
			return models.Transaction{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, err
	}
	return r.GetTransaction(ctx, txID)
}
