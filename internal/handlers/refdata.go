package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"giraffe/internal/models"
)

type tagRequest struct {
	Name      string  `json:"name" binding:"required"`
	Color     *string `json:"color"`
	SortOrder *int64  `json:"sort_order"`
}

// Roles and themes share handler logic; only the repo calls differ.

func (h *Handler) ListRoles(c *gin.Context) { h.listTags(c, h.repo.ListRoles, "Role") }
func (h *Handler) ListThemes(c *gin.Context) { h.listTags(c, h.repo.ListThemes, "Theme") }

func (h *Handler) CreateRole(c *gin.Context) { h.createTag(c, h.repo.CreateRole, "Role") }
func (h *Handler) CreateTheme(c *gin.Context) { h.createTag(c, h.repo.CreateTheme, "Theme") }

func (h *Handler) UpdateRole(c *gin.Context) { h.updateTag(c, h.repo.UpdateRole, "Role") }
func (h *Handler) UpdateTheme(c *gin.Context) { h.updateTag(c, h.repo.UpdateTheme, "Theme") }

func (h *Handler) DeleteRole(c *gin.Context) { h.deleteTag(c, h.repo.DeleteRole, "Role") }
func (h *Handler) DeleteTheme(c *gin.Context) { h.deleteTag(c, h.repo.DeleteTheme, "Theme") }

func (h *Handler) listTags(c *gin.Context, list func(ctx context.Context) ([]models.Tag, error), entity string) {
	tags, err := list(c.Request.Context())
	if err != nil {
		h.writeError(c, err, entity)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) createTag(c *gin.Context, create func(ctx context.Context, name string, color *string) (models.Tag, error), entity string) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity + " name is required"})
		return
	}
	tag, err := create(c.Request.Context(), name, req.Color)
	if err != nil {
		h.writeError(c, err, entity)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *Handler) updateTag(c *gin.Context, update func(ctx context.Context, id int64, name string, color *string, sortOrder int64) (models.Tag, error), entity string) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity + " name is required"})
		return
	}
	var sortOrder int64
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	tag, err := update(c.Request.Context(), id, name, req.Color, sortOrder)
	if err != nil {
		h.writeError(c, err, entity)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *Handler) deleteTag(c *gin.Context, del func(ctx context.Context, id int64) error, entity string) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		h.writeError(c, err, entity)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": entity + " deleted successfully"})
}
