// Package ledger holds the pure accounting arithmetic: cash balance
// derivation, lot-level cost-basis allocation, realized gains, split
// application and the simplified return metric. Everything here operates on
// decimals already loaded from the store; nothing touches the database.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInsufficientShares is returned when a sell asks for more shares than
// the lot holds.
var ErrInsufficientShares = errors.New("cannot sell more shares than held in lot")

// CashBalance derives an account's cash position from its four aggregates:
//
//	movements + dividends - buys + sells
//
// Movements are already sign-normalized (withdrawals and fees negative), so
// a plain sum is correct.
func CashBalance(movements, dividends, buys, sells decimal.Decimal) decimal.Decimal {
	return movements.Add(dividends).Sub(buys).Add(sells)
}

// RealizedGain sums sell gains with dividend income. Dividends are cash
// income, not capital gains, but the reported figure has always included
// them and callers depend on that.
func RealizedGain(sellGains, dividends decimal.Decimal) decimal.Decimal {
	return sellGains.Add(dividends)
}

// SellResult describes the outcome of selling from a single lot.
type SellResult struct {
	CostBasisSold decimal.Decimal
	RealizedGain  decimal.Decimal
	RemainingLot  LotState
	LotClosed     bool
}

// LotState is the shares/cost-basis pair left in a lot after a sell.
type LotState struct {
	Shares    decimal.Decimal
	CostBasis decimal.Decimal
}

// Sell allocates cost basis out of a lot of lotShares/lotCostBasis for a
// sale of sellShares at price. The sold basis is the lot's per-share cost
// times the quantity sold, so the surviving lot keeps the same per-share
// cost. A full sell closes the lot.
func Sell(lotShares, lotCostBasis, sellShares, price decimal.Decimal) (SellResult, error) {
	if sellShares.GreaterThan(lotShares) {
		return SellResult{}, ErrInsufficientShares
	}

	perShare := lotCostBasis.Div(lotShares)
	costBasisSold := perShare.Mul(sellShares)
	proceeds := sellShares.Mul(price)

	res := SellResult{
		CostBasisSold: costBasisSold,
		RealizedGain:  proceeds.Sub(costBasisSold),
	}

	remaining := lotShares.Sub(sellShares)
	if remaining.LessThanOrEqual(decimal.Zero) {
		res.LotClosed = true
		return res, nil
	}
	res.RemainingLot = LotState{
		Shares:    remaining,
		CostBasis: remaining.Mul(perShare),
	}
	return res, nil
}

// SplitShares applies a split ratio to a lot's share count. Cost basis is
// untouched: total investment is invariant under a split, per-share cost
// falls on its own.
func SplitShares(shares, ratio decimal.Decimal) decimal.Decimal {
	return shares.Mul(ratio)
}

// NormalizeCashAmount forces the stored sign convention: deposits and
// interest positive, withdrawals and fees negative, regardless of the sign
// the caller supplied.
func NormalizeCashAmount(movementType string, amount decimal.Decimal) decimal.Decimal {
	abs := amount.Abs()
	switch movementType {
	case "withdrawal", "fee":
		return abs.Neg()
	default:
		return abs
	}
}

// SimpleReturn is the net-invested return approximation used for the
// performance summary:
//
//	(endValue - netInvested) / netInvested * 100
//
// Known limitation: a true time-weighted return needs a valuation at every
// cash-flow date and geometric sub-period linking. This figure ignores flow
// timing entirely and collapses to zero when nothing has been invested.
func SimpleReturn(netInvested, endValue decimal.Decimal) decimal.Decimal {
	if netInvested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return endValue.Sub(netInvested).Div(netInvested).Mul(hundred)
}

// PointToPointReturn is the benchmark percentage between two closing
// prices.
func PointToPointReturn(startPrice, endPrice decimal.Decimal) decimal.Decimal {
	if startPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return endPrice.Sub(startPrice).Div(startPrice).Mul(decimal.NewFromInt(100))
}
