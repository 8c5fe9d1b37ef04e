package models

// Transaction types.
const (
	TxBuy  = "buy"
	TxSell = "sell"
)

// Cash movement types. Deposits and interest are stored positive,
// withdrawals and fees negative.
const (
	CashDeposit    = "deposit"
	CashWithdrawal = "withdrawal"
	CashFee        = "fee"
	CashInterest   = "interest"
)

// ValidCashType reports whether t is a recognized cash movement type.
func ValidCashType(t string) bool {
	switch t {
	case CashDeposit, CashWithdrawal, CashFee, CashInterest:
		return true
	}
	return false
}

type Account struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Type         string  `db:"type" json:"type"`
	Institution  *string `db:"institution" json:"institution"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	CashBalance  float64 `db:"-" json:"cash_balance"`
	RealizedGain float64 `db:"-" json:"realized_gain"`
}

// Holding is a single tax lot. CostBasis is the total paid for the lot,
// not per-share.
type Holding struct {
	ID           int64   `db:"id" json:"id"`
	AccountID    int64   `db:"account_id" json:"account_id"`
	Symbol       string  `db:"symbol" json:"symbol"`
	Shares       float64 `db:"shares" json:"shares"`
	CostBasis    float64 `db:"cost_basis" json:"cost_basis"`
	PurchaseDate string  `db:"purchase_date" json:"purchase_date"`
	Notes        *string `db:"notes" json:"notes"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	AccountName  string  `db:"account_name" json:"account_name,omitempty"`
}

type Transaction struct {
	ID           int64    `db:"id" json:"id"`
	AccountID    int64    `db:"account_id" json:"account_id"`
	HoldingID    *int64   `db:"holding_id" json:"holding_id"`
	Type         string   `db:"type" json:"type"`
	Symbol       string   `db:"symbol" json:"symbol"`
	Shares       float64  `db:"shares" json:"shares"`
	Price        float64  `db:"price" json:"price"`
	Total        float64  `db:"total" json:"total"`
	Date         string   `db:"date" json:"date"`
	Notes        *string  `db:"notes" json:"notes"`
	RealizedGain *float64 `db:"realized_gain" json:"realized_gain"`
	CreatedAt    string   `db:"created_at" json:"created_at"`
	AccountName  string   `db:"account_name" json:"account_name,omitempty"`
}

type Dividend struct {
	ID          int64   `db:"id" json:"id"`
	AccountID   int64   `db:"account_id" json:"account_id"`
	Symbol      string  `db:"symbol" json:"symbol"`
	Amount      float64 `db:"amount" json:"amount"`
	Date        string  `db:"date" json:"date"`
	Notes       *string `db:"notes" json:"notes"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	AccountName string  `db:"account_name" json:"account_name,omitempty"`
}

type CashMovement struct {
	ID          int64   `db:"id" json:"id"`
	AccountID   int64   `db:"account_id" json:"account_id"`
	Type        string  `db:"type" json:"type"`
	Amount      float64 `db:"amount" json:"amount"`
	Date        string  `db:"date" json:"date"`
	Notes       *string `db:"notes" json:"notes"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	AccountName string  `db:"account_name" json:"account_name,omitempty"`
}

// StockSplit records a corporate action. Ratio is new shares per old share;
// below 1 for reverse splits. Deleting a split does not undo its effect on
// holdings.
type StockSplit struct {
	ID        int64   `db:"id" json:"id"`
	Symbol    string  `db:"symbol" json:"symbol"`
	Ratio     float64 `db:"ratio" json:"ratio"`
	Date      string  `db:"date" json:"date"`
	Notes     *string `db:"notes" json:"notes"`
	CreatedAt string  `db:"created_at" json:"created_at"`
}

// StockPrice is the global price cache entry for a symbol, including
// research metadata. Role/theme names and colors are join-derived from the
// id relation, never stored.
type StockPrice struct {
	Symbol                string   `db:"symbol" json:"symbol"`
	Price                 float64  `db:"price" json:"price"`
	Name                  *string  `db:"name" json:"name"`
	RoleID                *int64   `db:"role_id" json:"role_id"`
	ThemeID               *int64   `db:"theme_id" json:"theme_id"`
	OverallRating         *float64 `db:"overall_rating" json:"overall_rating"`
	ValuationRating       *float64 `db:"valuation_rating" json:"valuation_rating"`
	GrowthQualityRating   *float64 `db:"growth_quality_rating" json:"growth_quality_rating"`
	EconMoatRating        *float64 `db:"econ_moat_rating" json:"econ_moat_rating"`
	LeadershipRating      *float64 `db:"leadership_rating" json:"leadership_rating"`
	FinancialHealthRating *float64 `db:"financial_health_rating" json:"financial_health_rating"`
	OverallNotes          *string  `db:"overall_notes" json:"overall_notes"`
	ValuationNotes        *string  `db:"valuation_notes" json:"valuation_notes"`
	GrowthQualityNotes    *string  `db:"growth_quality_notes" json:"growth_quality_notes"`
	EconMoatNotes         *string  `db:"econ_moat_notes" json:"econ_moat_notes"`
	LeadershipNotes       *string  `db:"leadership_notes" json:"leadership_notes"`
	FinancialHealthNotes  *string  `db:"financial_health_notes" json:"financial_health_notes"`
	ResearchUpdatedAt     *string  `db:"research_updated_at" json:"research_updated_at"`
	UpdatedAt             string   `db:"updated_at" json:"updated_at"`
	RoleName              *string  `db:"role_name" json:"role_name"`
	RoleColor             *string  `db:"role_color" json:"role_color"`
	ThemeName             *string  `db:"theme_name" json:"theme_name"`
	ThemeColor            *string  `db:"theme_color" json:"theme_color"`
}

// Tag is a role or theme row; both tables share the same shape.
type Tag struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Color     *string `db:"color" json:"color"`
	SortOrder int64   `db:"sort_order" json:"sort_order"`
	CreatedAt string  `db:"created_at" json:"created_at"`
}

type Setting struct {
	Key       string `db:"key" json:"key"`
	Value     string `db:"value" json:"value"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}
