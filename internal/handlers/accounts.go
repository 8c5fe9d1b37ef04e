package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type accountRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type"`
	Institution *string `json:"institution"`
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.repo.ListAccounts(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Account")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) GetAccount(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	account, err := h.repo.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.repo.CreateAccount(c.Request.Context(), req.Name, req.Type, req.Institution)
	if err != nil {
		h.writeError(c, err, "Account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := h.repo.UpdateAccount(c.Request.Context(), id, req.Name, req.Type, req.Institution)
	if err != nil {
		h.writeError(c, err, "Account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteAccount(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
