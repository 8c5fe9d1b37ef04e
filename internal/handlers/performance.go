package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"giraffe/internal/ledger"
)

// benchmarkSymbol is the reference index proxy used for the comparison
// return.
const benchmarkSymbol = "SPY"

// Performance returns the summary: current portfolio value, the simplified
// net-invested return, and the benchmark's point-to-point return over the
// same window. A benchmark fetch failure degrades to null, never a request
// failure.
func (h *Handler) Performance(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	since := c.Query("start_date")
	if since == "" {
		since = fmt.Sprintf("%d-01-01", time.Now().Year())
	}

	flows, err := h.repo.CashFlows(ctx, accountID, since)
	if err != nil {
		h.writeError(c, err, "Performance")
		return
	}
	value, err := h.repo.PortfolioValue(ctx, accountID)
	if err != nil {
		h.writeError(c, err, "Performance")
		return
	}
	netInvested, err := h.repo.NetInvested(ctx, accountID)
	if err != nil {
		h.writeError(c, err, "Performance")
		return
	}

	twr := ledger.SimpleReturn(netInvested, value)

	var benchmark *float64
	start, err := time.Parse("2006-01-02", since)
	if err != nil {
		start = time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if ret, err := h.quotes.RangeReturn(ctx, benchmarkSymbol, start, time.Now()); err != nil {
		h.log.Warnf("benchmark fetch failed: %v", err)
	} else {
		v := ret.InexactFloat64()
		benchmark = &v
	}

	c.JSON(http.StatusOK, gin.H{
		"portfolio_value": value.InexactFloat64(),
		"twr":             twr.InexactFloat64(),
		"spy_return":      benchmark,
		"cash_flows":      flows,
	})
}

type allocationSlice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

var allocationColors = []string{
	"#6366f1", "#8b5cf6", "#a855f7", "#d946ef", "#ec4899",
	"#f43f5e", "#ef4444", "#f97316", "#f59e0b", "#eab308",
	"#84cc16", "#22c55e", "#10b981", "#14b8a6", "#06b6d4",
	"#0ea5e9", "#3b82f6",
}

// Allocation groups holdings market value by role, theme or stock
// (group_by query parameter, default role).
func (h *Handler) Allocation(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	groupBy := c.DefaultQuery("group_by", "role")

	rows, err := h.repo.AllocationRows(c.Request.Context(), accountID)
	if err != nil {
		h.writeError(c, err, "Performance")
		return
	}

	groups := map[string]*allocationSlice{}
	order := []string{}
	total := decimal.Zero
	for _, row := range rows {
		value := decimal.NewFromFloat(row.Shares).Mul(decimal.NewFromFloat(row.Price))
		total = total.Add(value)

		var name, color string
		switch groupBy {
		case "theme":
			name, color = derefOr(row.ThemeName, "Unassigned"), derefOr(row.ThemeColor, "#cccccc")
		case "stock":
			name = row.Symbol
		default:
			name, color = derefOr(row.RoleName, "Unassigned"), derefOr(row.RoleColor, "#cccccc")
		}

		g, seen := groups[name]
		if !seen {
			if groupBy == "stock" {
				color = allocationColors[len(order)%len(allocationColors)]
			}
			g = &allocationSlice{Name: name, Color: color}
			groups[name] = g
			order = append(order, name)
		}
		g.Value += value.InexactFloat64()
	}

	result := make([]allocationSlice, 0, len(order))
	for _, name := range order {
		g := groups[name]
		if total.IsPositive() {
			g.Percent = decimal.NewFromFloat(g.Value).Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	c.JSON(http.StatusOK, result)
}

// History returns the running-cash series for charting.
func (h *Handler) History(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	history, err := h.repo.CashHistory(c.Request.Context(), accountID)
	if err != nil {
		h.writeError(c, err, "Performance")
		return
	}
	c.JSON(http.StatusOK, history)
}

// Snapshot reconstructs account state at a date from the transaction log.
func (h *Handler) Snapshot(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: date"})
		return
	}
	snapshot, err := h.repo.HistoricalSnapshot(c.Request.Context(), accountID, date)
	if err != nil {
		h.writeError(c, err, "Performance")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func derefOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}
