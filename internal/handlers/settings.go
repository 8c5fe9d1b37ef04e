package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type settingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.repo.ListSettings(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Setting")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) SetSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	setting, err := h.repo.SetSetting(c.Request.Context(), req.Key, req.Value)
	if err != nil {
		h.writeError(c, err, "Setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}
