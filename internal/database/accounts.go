package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"giraffe/internal/ledger"
	"giraffe/internal/models"
)

// ListAccounts returns all accounts ordered by name, each carrying its
// derived cash balance and realized gain.
func (r *Repo) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts := []models.Account{}
	if err := r.db.SelectContext(ctx, &accounts,
		`SELECT id, name, type, institution, created_at FROM accounts ORDER BY name`); err != nil {
		return nil, err
	}
	for i := range accounts {
		if err := r.attachDerived(ctx, &accounts[i]); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func (r *Repo) GetAccount(ctx context.Context, id int64) (models.Account, error) {
	var a models.Account
	err := r.db.GetContext(ctx, &a,
		`SELECT id, name, type, institution, created_at FROM accounts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	if err := r.attachDerived(ctx, &a); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func (r *Repo) CreateAccount(ctx context.Context, name, accountType string, institution *string) (models.Account, error) {
	if accountType == "" {
		accountType = "brokerage"
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type, institution) VALUES (?, ?, ?)`,
		name, accountType, institution)
	if err != nil {
		return models.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Account{}, err
	}
	return r.GetAccount(ctx, id)
}

func (r *Repo) UpdateAccount(ctx context.Context, id int64, name, accountType string, institution *string) (models.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, institution = ? WHERE id = ?`,
		name, accountType, institution, id)
	if err != nil {
		return models.Account{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Account{}, ErrNotFound
	}
	return r.GetAccount(ctx, id)
}

// DeleteAccount removes the account; lots, transactions, dividends and cash
// movements go with it via the cascading foreign keys.
func (r *Repo) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) attachDerived(ctx context.Context, a *models.Account) error {
	cash, err := r.CashBalance(ctx, &a.ID)
	if err != nil {
		return err
	}
	gain, err := r.RealizedGain(ctx, &a.ID)
	if err != nil {
		return err
	}
	a.CashBalance = cash.InexactFloat64()
	a.RealizedGain = gain.InexactFloat64()
	return nil
}

// CashBalance derives the cash position from the four stored aggregates.
// accountID nil means across all accounts.
func (r *Repo) CashBalance(ctx context.Context, accountID *int64) (decimal.Decimal, error) {
	movements, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM cash_movements`, "WHERE account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	dividends, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM dividends`, "WHERE account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	buys, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM transactions WHERE type = 'buy'`, "AND account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	sells, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM transactions WHERE type = 'sell'`, "AND account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.CashBalance(movements, dividends, buys, sells), nil
}

// RealizedGain sums stored sell gains plus dividend income for an account
// (nil for global).
func (r *Repo) RealizedGain(ctx context.Context, accountID *int64) (decimal.Decimal, error) {
	gains, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(realized_gain), 0) FROM transactions`, "WHERE account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	dividends, err := r.sumForAccount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM dividends`, "WHERE account_id = ?", accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.RealizedGain(gains, dividends), nil
}

func (r *Repo) sumForAccount(ctx context.Context, base, filter string, accountID *int64) (decimal.Decimal, error) {
	if accountID == nil {
		return r.sum(ctx, base)
	}
	return r.sum(ctx, base+" "+filter, *accountID)
}
