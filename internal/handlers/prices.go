package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"giraffe/internal/database"
	"giraffe/internal/service"
)

type researchRequest struct {
	RoleID                *int64   `json:"role_id"`
	ThemeID               *int64   `json:"theme_id"`
	OverallRating         *float64 `json:"overall_rating"`
	ValuationRating       *float64 `json:"valuation_rating"`
	GrowthQualityRating   *float64 `json:"growth_quality_rating"`
	EconMoatRating        *float64 `json:"econ_moat_rating"`
	LeadershipRating      *float64 `json:"leadership_rating"`
	FinancialHealthRating *float64 `json:"financial_health_rating"`
	OverallNotes          *string  `json:"overall_notes"`
	ValuationNotes        *string  `json:"valuation_notes"`
	GrowthQualityNotes    *string  `json:"growth_quality_notes"`
	EconMoatNotes         *string  `json:"econ_moat_notes"`
	LeadershipNotes       *string  `json:"leadership_notes"`
	FinancialHealthNotes  *string  `json:"financial_health_notes"`
}

// ListPrices returns the cache, all rows or only the symbols in the
// comma-separated "symbols" query parameter.
func (h *Handler) ListPrices(c *gin.Context) {
	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		symbols = strings.Split(raw, ",")
	}
	prices, err := h.repo.ListPrices(c.Request.Context(), symbols)
	if err != nil {
		h.writeError(c, err, "Price")
		return
	}
	c.JSON(http.StatusOK, prices)
}

// RefreshPrices re-fetches every held symbol, skipping failures.
func (h *Handler) RefreshPrices(c *gin.Context) {
	prices, err := h.prices.RefreshAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Price")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Refreshed %d prices", len(prices)),
		"prices":  prices,
	})
}

// FetchPrice fetches and caches one symbol on demand.
func (h *Handler) FetchPrice(c *gin.Context) {
	symbol := c.Param("symbol")
	price, err := h.prices.FetchOne(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, service.ErrNoQuote) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Symbol not found or price unavailable"})
			return
		}
		h.log.Warnf("price fetch failed for %s: %v", symbol, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Symbol not found or price unavailable"})
		return
	}
	c.JSON(http.StatusOK, price)
}

// UpdateResearch writes research metadata for a symbol.
func (h *Handler) UpdateResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := h.repo.UpdateResearch(c.Request.Context(), c.Param("symbol"), database.ResearchParams{
		RoleID:                req.RoleID,
		ThemeID:               req.ThemeID,
		OverallRating:         req.OverallRating,
		ValuationRating:       req.ValuationRating,
		GrowthQualityRating:   req.GrowthQualityRating,
		EconMoatRating:        req.EconMoatRating,
		LeadershipRating:      req.LeadershipRating,
		FinancialHealthRating: req.FinancialHealthRating,
		OverallNotes:          req.OverallNotes,
		ValuationNotes:        req.ValuationNotes,
		GrowthQualityNotes:    req.GrowthQualityNotes,
		EconMoatNotes:         req.EconMoatNotes,
		LeadershipNotes:       req.LeadershipNotes,
		FinancialHealthNotes:  req.FinancialHealthNotes,
	})
	if err != nil {
		h.writeError(c, err, "Price")
		return
	}
	c.JSON(http.StatusOK, price)
}
