package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"giraffe/internal/models"
)

const priceColumns = `sp.symbol, sp.price, sp.name, sp.role_id, sp.theme_id,
	sp.overall_rating, sp.valuation_rating, sp.growth_quality_rating,
	sp.econ_moat_rating, sp.leadership_rating, sp.financial_health_rating,
	sp.overall_notes, sp.valuation_notes, sp.growth_quality_notes,
	sp.econ_moat_notes, sp.leadership_notes, sp.financial_health_notes,
	sp.research_updated_at, sp.updated_at,
	sr.name AS role_name, sr.color AS role_color,
	st.name AS theme_name, st.color AS theme_color`

const priceJoin = ` FROM stock_prices sp
	LEFT JOIN stock_roles sr ON sp.role_id = sr.id
	LEFT JOIN stock_themes st ON sp.theme_id = st.id`

// ListPrices returns cached prices, all of them or just the given symbols,
// with role/theme names joined in for legacy by-name readers.
func (r *Repo) ListPrices(ctx context.Context, symbols []string) ([]models.StockPrice, error) {
	prices := []models.StockPrice{}
	if len(symbols) == 0 {
		err := r.db.SelectContext(ctx, &prices,
			`SELECT `+priceColumns+priceJoin+` ORDER BY sp.symbol`)
		return prices, err
	}

	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	query, args, err := sqlx.In(`SELECT `+priceColumns+priceJoin+` WHERE sp.symbol IN (?) ORDER BY sp.symbol`, upper)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &prices, r.db.Rebind(query), args...)
	return prices, err
}

func (r *Repo) GetPrice(ctx context.Context, symbol string) (models.StockPrice, error) {
	var p models.StockPrice
	err := r.db.GetContext(ctx, &p,
		`SELECT `+priceColumns+priceJoin+` WHERE sp.symbol = ?`, strings.ToUpper(symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StockPrice{}, ErrNotFound
	}
	if err != nil {
		return models.StockPrice{}, err
	}
	return p, nil
}

// UpsertPrice refreshes price, display name and updated_at for a symbol.
// Last write wins; concurrent refreshes of the same symbol are not
// coordinated.
func (r *Repo) UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stock_prices (symbol, price, name, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET price = excluded.price, name = excluded.name, updated_at = excluded.updated_at`,
		strings.ToUpper(symbol), price.InexactFloat64(), name, now)
	return err
}

// ResearchParams carries the analyst-style metadata attached to a cached
// symbol. Role/theme ids use COALESCE semantics (nil keeps the current
// value); ratings and notes overwrite, nil clearing them.
type ResearchParams struct {
	RoleID                *int64
	ThemeID               *int64
	OverallRating         *float64
	ValuationRating       *float64
	GrowthQualityRating   *float64
	EconMoatRating        *float64
	LeadershipRating      *float64
	FinancialHealthRating *float64
	OverallNotes          *string
	ValuationNotes        *string
	GrowthQualityNotes    *string
	EconMoatNotes         *string
	LeadershipNotes       *string
	FinancialHealthNotes  *string
}

// UpdateResearch writes research fields for a symbol, inserting a zero-price
// cache row first when the symbol has never been priced.
func (r *Repo) UpdateResearch(ctx context.Context, symbol string, p ResearchParams) (models.StockPrice, error) {
	upper := strings.ToUpper(symbol)
	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO stock_prices (symbol, price, name, updated_at) VALUES (?, 0, ?, ?)
		 ON CONFLICT(symbol) DO NOTHING`, upper, upper, now); err != nil {
		return models.StockPrice{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE stock_prices SET
			role_id = COALESCE(?, role_id),
			theme_id = COALESCE(?, theme_id),
			overall_rating = ?, valuation_rating = ?, growth_quality_rating = ?,
			econ_moat_rating = ?, leadership_rating = ?, financial_health_rating = ?,
			overall_notes = ?, valuation_notes = ?, growth_quality_notes = ?,
			econ_moat_notes = ?, leadership_notes = ?, financial_health_notes = ?,
			research_updated_at = ?
		 WHERE symbol = ?`,
		p.RoleID, p.ThemeID,
		p.OverallRating, p.ValuationRating, p.GrowthQualityRating,
		p.EconMoatRating, p.LeadershipRating, p.FinancialHealthRating,
		p.OverallNotes, p.ValuationNotes, p.GrowthQualityNotes,
		p.EconMoatNotes, p.LeadershipNotes, p.FinancialHealthNotes,
		now, upper); err != nil {
		return models.StockPrice{}, err
	}

	return r.GetPrice(ctx, upper)
}
