package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"giraffe/internal/models"
)

const dividendColumns = `d.id, d.account_id, d.symbol, d.amount, d.date, d.notes, d.created_at,
	a.name AS account_name`

func (r *Repo) ListDividends(ctx context.Context, accountID *int64, symbol string) ([]models.Dividend, error) {
	query := `SELECT ` + dividendColumns + ` FROM dividends d JOIN accounts a ON d.account_id = a.id WHERE 1=1`
	args := []interface{}{}
	if accountID != nil {
		query += ` AND d.account_id = ?`
		args = append(args, *accountID)
	}
	if symbol != "" {
		query += ` AND d.symbol = ?`
		args = append(args, strings.ToUpper(symbol))
	}
	query += ` ORDER BY d.date DESC, d.id DESC`

	dividends := []models.Dividend{}
	if err := r.db.SelectContext(ctx, &dividends, query, args...); err != nil {
		return nil, err
	}
	return dividends, nil
}

func (r *Repo) GetDividend(ctx context.Context, id int64) (models.Dividend, error) {
	var d models.Dividend
	err := r.db.GetContext(ctx, &d,
		`SELECT `+dividendColumns+` FROM dividends d JOIN accounts a ON d.account_id = a.id WHERE d.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Dividend{}, ErrNotFound
	}
	if err != nil {
		return models.Dividend{}, err
	}
	return d, nil
}

func (r *Repo) CreateDividend(ctx context.Context, accountID int64, symbol string, amount decimal.Decimal, date string, notes *string) (models.Dividend, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO dividends (account_id, symbol, amount, date, notes) VALUES (?, ?, ?, ?, ?)`,
		accountID, strings.ToUpper(symbol), amount.InexactFloat64(), date, notes)
	if err != nil {
		return models.Dividend{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Dividend{}, err
	}
	return r.GetDividend(ctx, id)
}

func (r *Repo) UpdateDividend(ctx context.Context, id int64, symbol string, amount decimal.Decimal, date string, notes *string) (models.Dividend, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dividends SET symbol = ?, amount = ?, date = ?, notes = ? WHERE id = ?`,
		strings.ToUpper(symbol), amount.InexactFloat64(), date, notes, id)
	if err != nil {
		return models.Dividend{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Dividend{}, ErrNotFound
	}
	return r.GetDividend(ctx, id)
}

func (r *Repo) DeleteDividend(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dividends WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
