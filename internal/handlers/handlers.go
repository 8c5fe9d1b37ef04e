package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"giraffe/internal/database"
	"giraffe/internal/service"
)

// Handler carries the dependencies every route needs. Validation of
// required fields happens here at the boundary, via binding tags; the repo
// below assumes well-formed input.
type Handler struct {
	repo   *database.Repo
	prices *service.PriceService
	quotes service.QuoteProvider
	dbPath string
	log    *logrus.Logger
}

func NewHandler(repo *database.Repo, prices *service.PriceService, quotes service.QuoteProvider, dbPath string, log *logrus.Logger) *Handler {
	return &Handler{repo: repo, prices: prices, quotes: quotes, dbPath: dbPath, log: log}
}

// idParam parses the :id path segment; writes a 400 and returns false when
// it is not an integer.
func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// accountFilter reads the optional account_id query parameter; nil means
// no account scoping.
func (h *Handler) accountFilter(c *gin.Context) (*int64, bool) {
	raw := c.Query("account_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account_id"})
		return nil, false
	}
	return &id, true
}

// writeError maps the repo's error taxonomy onto status codes.
func (h *Handler) writeError(c *gin.Context, err error, entity string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, database.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot sell more shares than held in lot"})
	case errors.Is(err, database.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A " + strings.ToLower(entity) + " with this name already exists"})
	default:
		h.log.Errorf("%s request failed: %v", strings.ToLower(entity), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
