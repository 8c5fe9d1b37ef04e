package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"giraffe/internal/models"
)

type cashMovementRequest struct {
	AccountID int64   `json:"account_id" binding:"required"`
	Type      string  `json:"type" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Notes     *string `json:"notes"`
}

type cashMovementUpdateRequest struct {
	Type   string  `json:"type" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Date   string  `json:"date" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *Handler) ListCashMovements(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	movements, err := h.repo.ListCashMovements(c.Request.Context(), accountID, c.Query("type"))
	if err != nil {
		h.writeError(c, err, "Cash movement")
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *Handler) GetCashMovement(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	movement, err := h.repo.GetCashMovement(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Cash movement")
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *Handler) CreateCashMovement(c *gin.Context) {
	var req cashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCashType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Must be: deposit, withdrawal, fee, or interest"})
		return
	}
	movement, err := h.repo.CreateCashMovement(c.Request.Context(), req.AccountID, req.Type,
		decimal.NewFromFloat(req.Amount), req.Date, req.Notes)
	if err != nil {
		h.writeError(c, err, "Cash movement")
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *Handler) UpdateCashMovement(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req cashMovementUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCashType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Must be: deposit, withdrawal, fee, or interest"})
		return
	}
	movement, err := h.repo.UpdateCashMovement(c.Request.Context(), id, req.Type,
		decimal.NewFromFloat(req.Amount), req.Date, req.Notes)
	if err != nil {
		h.writeError(c, err, "Cash movement")
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *Handler) DeleteCashMovement(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteCashMovement(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Cash movement")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
