package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"giraffe/internal/database"
)

type splitRequest struct {
	Symbol string  `json:"symbol" binding:"required"`
	Ratio  float64 `json:"ratio" binding:"required,gt=0"`
	Date   string  `json:"date" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *Handler) ListSplits(c *gin.Context) {
	splits, err := h.repo.ListSplits(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		h.writeError(c, err, "Stock split")
		return
	}
	c.JSON(http.StatusOK, splits)
}

// ApplySplit records the split and rescales affected lots in one shot.
func (h *Handler) ApplySplit(c *gin.Context) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	split, touched, err := h.repo.ApplySplit(c.Request.Context(), database.SplitParams{
		Symbol: req.Symbol,
		Ratio:  decimal.NewFromFloat(req.Ratio),
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		h.writeError(c, err, "Stock split")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":               split.ID,
		"symbol":           split.Symbol,
		"ratio":            split.Ratio,
		"date":             split.Date,
		"notes":            split.Notes,
		"created_at":       split.CreatedAt,
		"holdings_updated": touched,
	})
}

// DeleteSplit removes the record only; the lot rewrite it performed stays.
func (h *Handler) DeleteSplit(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteSplit(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Stock split")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
