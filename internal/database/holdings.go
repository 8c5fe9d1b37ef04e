package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"giraffe/internal/models"
)

const holdingColumns = `h.id, h.account_id, h.symbol, h.shares, h.cost_basis,
	h.purchase_date, h.notes, h.created_at, a.name AS account_name`

// ListHoldings returns all lots, optionally scoped to one account, joined
// with the owning account's name.
func (r *Repo) ListHoldings(ctx context.Context, accountID *int64) ([]models.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings h JOIN accounts a ON h.account_id = a.id`
	args := []interface{}{}
	if accountID != nil {
		query += ` WHERE h.account_id = ?`
		args = append(args, *accountID)
	}
	query += ` ORDER BY h.symbol, h.purchase_date`

	holdings := []models.Holding{}
	if err := r.db.SelectContext(ctx, &holdings, query, args...); err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *Repo) GetHolding(ctx context.Context, id int64) (models.Holding, error) {
	var h models.Holding
	err := r.db.GetContext(ctx, &h,
		`SELECT `+holdingColumns+` FROM holdings h JOIN accounts a ON h.account_id = a.id WHERE h.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Holding{}, ErrNotFound
	}
	if err != nil {
		return models.Holding{}, err
	}
	return h, nil
}

// BuyParams describes a lot purchase. CostBasis is the total paid.
type BuyParams struct {
	AccountID    int64
	Symbol       string
	Shares       decimal.Decimal
	CostBasis    decimal.Decimal
	PurchaseDate string
	Notes        *string
}

// Buy creates the lot and appends the matching buy transaction atomically:
// either both rows exist afterwards or neither does.
func (r *Repo) Buy(ctx context.Context, p BuyParams) (models.Holding, error) {
	symbol := strings.ToUpper(p.Symbol)
	pricePerShare := p.CostBasis.Div(p.Shares)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Holding{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO holdings (account_id, symbol, shares, cost_basis, purchase_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.AccountID, symbol, p.Shares.InexactFloat64(), p.CostBasis.InexactFloat64(), p.PurchaseDate, p.Notes)
	if err != nil {
		return models.Holding{}, err
	}
	holdingID, err := res.LastInsertId()
	if err != nil {
		return models.Holding{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (account_id, holding_id, type, symbol, shares, price, total, date, notes)
		 VALUES (?, ?, 'buy', ?, ?, ?, ?, ?, ?)`,
		p.AccountID, holdingID, symbol, p.Shares.InexactFloat64(), pricePerShare.InexactFloat64(),
		p.CostBasis.InexactFloat64(), p.PurchaseDate, p.Notes); err != nil {
		return models.Holding{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Holding{}, err
	}
	return r.GetHolding(ctx, holdingID)
}

func (r *Repo) UpdateHolding(ctx context.Context, id int64, shares, costBasis decimal.Decimal, purchaseDate string, notes *string) (models.Holding, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE holdings SET shares = ?, cost_basis = ?, purchase_date = ?, notes = ? WHERE id = ?`,
		shares.InexactFloat64(), costBasis.InexactFloat64(), purchaseDate, notes, id)
	if err != nil {
		return models.Holding{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Holding{}, ErrNotFound
	}
	return r.GetHolding(ctx, id)
}

func (r *Repo) DeleteHolding(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HeldSymbols lists the distinct symbols currently held across all
// accounts, used to drive price refreshes.
func (r *Repo) HeldSymbols(ctx context.Context) ([]string, error) {
	symbols := []string{}
	if err := r.db.SelectContext(ctx, &symbols,
		`SELECT DISTINCT symbol FROM holdings ORDER BY symbol`); err != nil {
		return nil, err
	}
	return symbols, nil
}
