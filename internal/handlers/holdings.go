package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"giraffe/internal/database"
)

type buyRequest struct {
	AccountID    int64   `json:"account_id" binding:"required"`
	Symbol       string  `json:"symbol" binding:"required"`
	Shares       float64 `json:"shares" binding:"required,gt=0"`
	CostBasis    float64 `json:"cost_basis" binding:"required,gt=0"`
	PurchaseDate string  `json:"purchase_date" binding:"required"`
	Notes        *string `json:"notes"`
}

type holdingUpdateRequest struct {
	Shares       float64 `json:"shares" binding:"required,gt=0"`
	CostBasis    float64 `json:"cost_basis" binding:"required,gt=0"`
	PurchaseDate string  `json:"purchase_date" binding:"required"`
	Notes        *string `json:"notes"`
}

func (h *Handler) ListHoldings(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	holdings, err := h.repo.ListHoldings(c.Request.Context(), accountID)
	if err != nil {
		h.writeError(c, err, "Holding")
		return
	}
	c.JSON(http.StatusOK, holdings)
}

func (h *Handler) GetHolding(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	holding, err := h.repo.GetHolding(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Holding")
		return
	}
	c.JSON(http.StatusOK, holding)
}

// CreateHolding is buy execution: the lot and its buy transaction are
// written together or not at all.
func (h *Handler) CreateHolding(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	holding, err := h.repo.Buy(c.Request.Context(), database.BuyParams{
		AccountID:    req.AccountID,
		Symbol:       req.Symbol,
		Shares:       decimal.NewFromFloat(req.Shares),
		CostBasis:    decimal.NewFromFloat(req.CostBasis),
		PurchaseDate: req.PurchaseDate,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeError(c, err, "Holding")
		return
	}
	c.JSON(http.StatusCreated, holding)
}

func (h *Handler) UpdateHolding(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req holdingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	holding, err := h.repo.UpdateHolding(c.Request.Context(), id,
		decimal.NewFromFloat(req.Shares), decimal.NewFromFloat(req.CostBasis),
		req.PurchaseDate, req.Notes)
	if err != nil {
		h.writeError(c, err, "Holding")
		return
	}
	c.JSON(http.StatusOK, holding)
}

func (h *Handler) DeleteHolding(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteHolding(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Holding")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
