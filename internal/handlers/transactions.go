package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"giraffe/internal/database"
)

type transactionRequest struct {
	AccountID int64   `json:"account_id" binding:"required"`
	HoldingID *int64  `json:"holding_id"`
	Type      string  `json:"type" binding:"required,oneof=buy sell"`
	Symbol    string  `json:"symbol" binding:"required"`
	Shares    float64 `json:"shares" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Date      string  `json:"date" binding:"required"`
	Notes     *string `json:"notes"`
}

type transactionUpdateRequest struct {
	Type   string  `json:"type" binding:"required,oneof=buy sell"`
	Symbol string  `json:"symbol" binding:"required"`
	Shares float64 `json:"shares" binding:"required,gt=0"`
	Price  float64 `json:"price" binding:"required,gt=0"`
	Date   string  `json:"date" binding:"required"`
	Notes  *string `json:"notes"`
}

type sellRequest struct {
	AccountID int64   `json:"account_id" binding:"required"`
	HoldingID int64   `json:"holding_id" binding:"required"`
	Shares    float64 `json:"shares" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Date      string  `json:"date" binding:"required"`
	Notes     *string `json:"notes"`
}

func (h *Handler) ListTransactions(c *gin.Context) {
	accountID, ok := h.accountFilter(c)
	if !ok {
		return
	}
	txs, err := h.repo.ListTransactions(c.Request.Context(), database.TransactionFilter{
		AccountID: accountID,
		Type:      c.Query("type"),
		Symbol:    c.Query("symbol"),
	})
	if err != nil {
		h.writeError(c, err, "Transaction")
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	tx, err := h.repo.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// CreateTransaction records a manual buy or sell not routed through lot
// accounting.
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.repo.CreateTransaction(c.Request.Context(), database.TransactionParams{
		AccountID: req.AccountID,
		HoldingID: req.HoldingID,
		Type:      req.Type,
		Symbol:    req.Symbol,
		Shares:    decimal.NewFromFloat(req.Shares),
		Price:     decimal.NewFromFloat(req.Price),
		Date:      req.Date,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeError(c, err, "Transaction")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// UpdateTransaction edits a transaction; a buy tied to a lot drags the lot
// along with it (shares, cost basis, symbol, purchase date).
func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req transactionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.repo.UpdateTransaction(c.Request.Context(), id, req.Type, req.Symbol,
		decimal.NewFromFloat(req.Shares), decimal.NewFromFloat(req.Price), req.Date, req.Notes)
	if err != nil {
		h.writeError(c, err, "Transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Sell executes a sale from a specific lot.
func (h *Handler) Sell(c *gin.Context) {
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.repo.Sell(c.Request.Context(), database.SellParams{
		AccountID: req.AccountID,
		HoldingID: req.HoldingID,
		Shares:    decimal.NewFromFloat(req.Shares),
		Price:     decimal.NewFromFloat(req.Price),
		Date:      req.Date,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeError(c, err, "Holding")
		return
	}
	c.JSON(http.StatusCreated, tx)
}
