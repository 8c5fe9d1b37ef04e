package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type dividendRequest struct {
	AccountID int64   `json:"account_id" binding:"required"`
	Symbol    string  `json:"symbol" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Date      string  `json:"date" binding:"required"`
	Notes     *string `json:"notes"`
}

type dividendUpdateRequest struct {
	Symbol string  `json:"symbol" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *Handler) ListDividends(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	dividends, err := h.repo.ListDividends(c.Request.Context(), accountID, c.Query("symbol"))
	if err != nil {
		h.writeError(c, err, "Dividend")
		return
	}
	c.JSON(http.StatusOK, dividends)
}

func (h *Handler) GetDividend(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	dividend, err := h.repo.GetDividend(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Dividend")
		return
	}
	c.JSON(http.StatusOK, dividend)
}

func (h *Handler) CreateDividend(c *gin.Context) {
	var req dividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dividend, err := h.repo.CreateDividend(c.Request.Context(), req.AccountID, req.Symbol,
		decimal.NewFromFloat(req.Amount), req.Date, req.Notes)
	if err != nil {
		h.writeError(c, err, "Dividend")
		return
	}
	c.JSON(http.StatusCreated, dividend)
}

func (h *Handler) UpdateDividend(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req dividendUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dividend, err := h.repo.UpdateDividend(c.Request.Context(), id, req.Symbol,
		decimal.NewFromFloat(req.Amount), req.Date, req.Notes)
	if err != nil {
		h.writeError(c, err, "Dividend")
		return
	}
	c.JSON(http.StatusOK, dividend)
}

func (h *Handler) DeleteDividend(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteDividend(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Dividend")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
