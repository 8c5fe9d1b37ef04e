package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT 'brokerage',
	institution TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS holdings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	symbol TEXT NOT NULL,
	shares REAL NOT NULL,
	cost_basis REAL NOT NULL,
	purchase_date TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	holding_id INTEGER REFERENCES holdings(id) ON DELETE SET NULL,
	type TEXT NOT NULL CHECK (type IN ('buy','sell')),
	symbol TEXT NOT NULL,
	shares REAL NOT NULL,
	price REAL NOT NULL,
	total REAL NOT NULL,
	date TEXT NOT NULL,
	notes TEXT,
	realized_gain REAL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dividends (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	symbol TEXT NOT NULL,
	amount REAL NOT NULL,
	date TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS cash_movements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	type TEXT NOT NULL CHECK (type IN ('deposit','withdrawal','fee','interest')),
	amount REAL NOT NULL,
	date TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stock_splits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	ratio REAL NOT NULL,
	date TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stock_roles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	color TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stock_themes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	color TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stock_prices (
	symbol TEXT PRIMARY KEY,
	price REAL NOT NULL DEFAULT 0,
	name TEXT,
	role_id INTEGER REFERENCES stock_roles(id) ON DELETE SET NULL,
	theme_id INTEGER REFERENCES stock_themes(id) ON DELETE SET NULL,
	overall_rating REAL,
	valuation_rating REAL,
	growth_quality_rating REAL,
	econ_moat_rating REAL,
	leadership_rating REAL,
	financial_health_rating REAL,
	overall_notes TEXT,
	valuation_notes TEXT,
	growth_quality_notes TEXT,
	econ_moat_notes TEXT,
	leadership_notes TEXT,
	financial_health_notes TEXT,
	research_updated_at TEXT,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS app_settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate applies the schema and the additive migrations, then seeds
// reference data. Everything is idempotent so it runs at every startup,
// including against a database file uploaded from an older build.
func Migrate(db *sqlx.DB, log *logrus.Logger) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	// Older database files predate some columns; CREATE TABLE IF NOT EXISTS
	// leaves their tables alone, so patch them column by column.
	additive := []struct {
		table, column, def string
	}{
		{"transactions", "realized_gain", "realized_gain REAL"},
		{"stock_prices", "role_id", "role_id INTEGER REFERENCES stock_roles(id) ON DELETE SET NULL"},
		{"stock_prices", "theme_id", "theme_id INTEGER REFERENCES stock_themes(id) ON DELETE SET NULL"},
		{"stock_prices", "overall_rating", "overall_rating REAL"},
		{"stock_prices", "valuation_rating", "valuation_rating REAL"},
		{"stock_prices", "growth_quality_rating", "growth_quality_rating REAL"},
		{"stock_prices", "econ_moat_rating", "econ_moat_rating REAL"},
		{"stock_prices", "leadership_rating", "leadership_rating REAL"},
		{"stock_prices", "financial_health_rating", "financial_health_rating REAL"},
		{"stock_prices", "overall_notes", "overall_notes TEXT"},
		{"stock_prices", "valuation_notes", "valuation_notes TEXT"},
		{"stock_prices", "growth_quality_notes", "growth_quality_notes TEXT"},
		{"stock_prices", "econ_moat_notes", "econ_moat_notes TEXT"},
		{"stock_prices", "leadership_notes", "leadership_notes TEXT"},
		{"stock_prices", "financial_health_notes", "financial_health_notes TEXT"},
		{"stock_prices", "research_updated_at", "research_updated_at TEXT"},
	}
	for _, m := range additive {
		ok, err := hasColumn(db, m.table, m.column)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", m.table, m.def)); err != nil {
			return fmt.Errorf("add %s.%s: %w", m.table, m.column, err)
		}
		log.Infof("migrated: added column %s.%s", m.table, m.column)
	}

	if err := seedTags(db, "stock_roles", [][2]string{
		{"MEGA", "#4f46e5"},
		{"LARGE", "#3b82f6"},
		{"MID/SMALL", "#10b981"},
		{"ETF", "#f59e0b"},
	}); err != nil {
		return err
	}
	if err := seedTags(db, "stock_themes", [][2]string{
		{"Technology", "#3b82f6"},
		{"Healthcare", "#10b981"},
		{"Financial", "#8b5cf6"},
		{"Consumer", "#f59e0b"},
		{"Industrial", "#6b7280"},
		{"Energy", "#ef4444"},
	}); err != nil {
		return err
	}

	defaults := map[string]string{
		"app_name":   "Giraffe Terminal",
		"logo_type":  "default",
		"logo_value": "🦒",
	}
	for k, v := range defaults {
		if _, err := db.Exec(
			`INSERT INTO app_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`, k, v); err != nil {
			return fmt.Errorf("seed setting %s: %w", k, err)
		}
	}
	return nil
}

func hasColumn(db *sqlx.DB, table, column string) (bool, error) {
	rows, err := db.Queryx(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func seedTags(db *sqlx.DB, table string, rows [][2]string) error {
	var n int
	if err := db.Get(&n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i, r := range rows {
		if _, err := db.Exec(
			fmt.Sprintf("INSERT INTO %s (name, color, sort_order) VALUES (?, ?, ?)", table),
			r[0], r[1], i+1); err != nil {
			return fmt.Errorf("seed %s: %w", table, err)
		}
	}
	return nil
}
