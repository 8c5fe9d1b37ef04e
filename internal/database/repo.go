package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Repo is the data-access layer. Every multi-statement mutation runs inside
// a single transaction; derived aggregates (cash balance, portfolio value)
// are recomputed on every read, never stored.
type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// sum runs a single-value aggregate query and returns it as a decimal.
// Queries are expected to COALESCE to 0 themselves.
func (r *Repo) sum(ctx context.Context, query string, args ...interface{}) (decimal.Decimal, error) {
	var v float64
	if err := r.db.GetContext(ctx, &v, query, args...); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(v), nil
}
