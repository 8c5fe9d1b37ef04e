package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"giraffe/internal/ledger"
	"giraffe/internal/models"
)

const movementColumns = `c.id, c.account_id, c.type, c.amount, c.date, c.notes, c.created_at,
	a.name AS account_name`

func (r *Repo) ListCashMovements(ctx context.Context, accountID *int64, movementType string) ([]models.CashMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM cash_movements c JOIN accounts a ON c.account_id = a.id WHERE 1=1`
	args := []interface{}{}
	if accountID != nil {
		query += ` AND c.account_id = ?`
		args = append(args, *accountID)
	}
	if movementType != "" {
		query += ` AND c.type = ?`
		args = append(args, movementType)
	}
	query += ` ORDER BY c.date DESC, c.id DESC`

	movements := []models.CashMovement{}
	if err := r.db.SelectContext(ctx, &movements, query, args...); err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *Repo) GetCashMovement(ctx context.Context, id int64) (models.CashMovement, error) {
	var m models.CashMovement
	err := r.db.GetContext(ctx, &m,
		`SELECT `+movementColumns+` FROM cash_movements c JOIN accounts a ON c.account_id = a.id WHERE c.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CashMovement{}, ErrNotFound
	}
	if err != nil {
		return models.CashMovement{}, err
	}
	return m, nil
}

// CreateCashMovement stores a movement with its amount sign-normalized:
// deposits/interest positive, withdrawals/fees negative.
func (r *Repo) CreateCashMovement(ctx context.Context, accountID int64, movementType string, amount decimal.Decimal, date string, notes *string) (models.CashMovement, error) {
	normalized := ledger.NormalizeCashAmount(movementType, amount)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cash_movements (account_id, type, amount, date, notes) VALUES (?, ?, ?, ?, ?)`,
		accountID, movementType, normalized.InexactFloat64(), date, notes)
	if err != nil {
		return models.CashMovement{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.CashMovement{}, err
	}
	return r.GetCashMovement(ctx, id)
}

func (r *Repo) UpdateCashMovement(ctx context.Context, id int64, movementType string, amount decimal.Decimal, date string, notes *string) (models.CashMovement, error) {
	normalized := ledger.NormalizeCashAmount(movementType, amount)
	res, err := r.db.ExecContext(ctx,
		`UPDATE cash_movements SET type = ?, amount = ?, date = ?, notes = ? WHERE id = ?`,
		movementType, normalized.InexactFloat64(), date, notes, id)
	if err != nil {
		return models.CashMovement{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.CashMovement{}, ErrNotFound
	}
	return r.GetCashMovement(ctx, id)
}

func (r *Repo) DeleteCashMovement(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cash_movements WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
