package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestCashBalance(t *testing.T) {
	got := CashBalance(d(10000), d(120), d(1500), d(1000))
	assert.True(t, got.Equal(d(9620)), "got %s", got)

	// Withdrawals arrive already negative inside the movements sum.
	got = CashBalance(d(-500), decimal.Zero, decimal.Zero, decimal.Zero)
	assert.True(t, got.Equal(d(-500)))
}

func TestSell_PartialLot(t *testing.T) {
	// 10 shares at total cost 1500; sell 5 at 200.
	res, err := Sell(d(10), d(1500), d(5), d(200))
	require.NoError(t, err)

	assert.True(t, res.CostBasisSold.Equal(d(750)), "cost basis sold %s", res.CostBasisSold)
	assert.True(t, res.RealizedGain.Equal(d(250)), "realized gain %s", res.RealizedGain)
	assert.False(t, res.LotClosed)
	assert.True(t, res.RemainingLot.Shares.Equal(d(5)))
	assert.True(t, res.RemainingLot.CostBasis.Equal(d(750)))
}

func TestSell_FullLotCloses(t *testing.T) {
	res, err := Sell(d(10), d(1500), d(10), d(140))
	require.NoError(t, err)

	assert.True(t, res.LotClosed)
	assert.True(t, res.CostBasisSold.Equal(d(1500)))
	assert.True(t, res.RealizedGain.Equal(d(-100)), "realized gain %s", res.RealizedGain)
}

func TestSell_Oversell(t *testing.T) {
	_, err := Sell(d(10), d(1500), d(11), d(200))
	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestSell_PerShareCostPreserved(t *testing.T) {
	// Selling at exactly the per-share cost realizes zero.
	res, err := Sell(d(8), d(1200), d(3), d(150))
	require.NoError(t, err)

	assert.True(t, res.RealizedGain.IsZero(), "realized gain %s", res.RealizedGain)
	perBefore := d(1200).Div(d(8))
	perAfter := res.RemainingLot.CostBasis.Div(res.RemainingLot.Shares)
	assert.True(t, perAfter.Equal(perBefore))
}

func TestSplitShares(t *testing.T) {
	assert.True(t, SplitShares(d(10), d(4)).Equal(d(40)))
	// Reverse split.
	assert.True(t, SplitShares(d(10), d(0.5)).Equal(d(5)))
}

func TestNormalizeCashAmount(t *testing.T) {
	cases := []struct {
		typ  string
		in   float64
		want float64
	}{
		{"deposit", 100, 100},
		{"deposit", -100, 100},
		{"interest", 5, 5},
		{"withdrawal", 200, -200},
		{"withdrawal", -200, -200},
		{"fee", 9.99, -9.99},
	}
	for _, c := range cases {
		got := NormalizeCashAmount(c.typ, d(c.in))
		assert.True(t, got.Equal(d(c.want)), "%s %v: got %s", c.typ, c.in, got)
	}
}

func TestRealizedGain(t *testing.T) {
	got := RealizedGain(d(250), d(120))
	assert.True(t, got.Equal(d(370)))
}

func TestSimpleReturn(t *testing.T) {
	got := SimpleReturn(d(10000), d(10500))
	assert.True(t, got.Equal(d(5)), "got %s", got)

	assert.True(t, SimpleReturn(decimal.Zero, d(500)).IsZero())
	assert.True(t, SimpleReturn(d(-100), d(500)).IsZero())
}

func TestPointToPointReturn(t *testing.T) {
	got := PointToPointReturn(d(400), d(440))
	assert.True(t, got.Equal(d(10)), "got %s", got)

	assert.True(t, PointToPointReturn(decimal.Zero, d(440)).IsZero())
}
