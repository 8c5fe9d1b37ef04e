package database

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"giraffe/internal/models"
)

func (r *Repo) ListSplits(ctx context.Context, symbol string) ([]models.StockSplit, error) {
	query := `SELECT id, symbol, ratio, date, notes, created_at FROM stock_splits WHERE 1=1`
	args := []interface{}{}
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, strings.ToUpper(symbol))
	}
	query += ` ORDER BY date DESC`

	splits := []models.StockSplit{}
	if err := r.db.SelectContext(ctx, &splits, query, args...); err != nil {
		return nil, err
	}
	return splits, nil
}

// SplitParams describes a stock split to record and apply.
type SplitParams struct {
	Symbol string
	Ratio  decimal.Decimal
	Date   string
	Notes  *string
}

// ApplySplit inserts the split record and rescales every lot of the symbol
// purchased on or before the split date (shares multiplied by the ratio,
// cost basis untouched), in one transaction. Returns the split and the
// number of lots rewritten. There is no reverse path: deleting the split
// record later does not restore the lots.
func (r *Repo) ApplySplit(ctx context.Context, p SplitParams) (models.StockSplit, int64, error) {
	symbol := strings.ToUpper(p.Symbol)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.StockSplit{}, 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO stock_splits (symbol, ratio, date, notes) VALUES (?, ?, ?, ?)`,
		symbol, p.Ratio.InexactFloat64(), p.Date, p.Notes)
	if err != nil {
		return models.StockSplit{}, 0, err
	}
	splitID, err := res.LastInsertId()
	if err != nil {
		return models.StockSplit{}, 0, err
	}

	upd, err := tx.ExecContext(ctx,
		`UPDATE holdings SET shares = shares * ? WHERE symbol = ? AND purchase_date <= ?`,
		p.Ratio.InexactFloat64(), symbol, p.Date)
	if err != nil {
		return models.StockSplit{}, 0, err
	}
	touched, err := upd.RowsAffected()
	if err != nil {
		return models.StockSplit{}, 0, err
	}

	if err := tx.Commit(); err != nil {
		return models.StockSplit{}, 0, err
	}

	var split models.StockSplit
	if err := r.db.GetContext(ctx, &split,
		`SELECT id, symbol, ratio, date, notes, created_at FROM stock_splits WHERE id = ?`, splitID); err != nil {
		return models.StockSplit{}, 0, err
	}
	return split, touched, nil
}

func (r *Repo) DeleteSplit(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stock_splits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
