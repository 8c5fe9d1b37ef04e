package handlers

import (
	"bytes"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// sqliteHeader is the 16-byte magic every SQLite 3 database file starts
// with; uploads without it are rejected before touching the live store.
var sqliteHeader = []byte("SQLite format 3\x00")

// ExportDB streams the raw database file as a download.
func (h *Handler) ExportDB(c *gin.Context) {
	if _, err := os.Stat(h.dbPath); err != nil {
		h.log.Errorf("export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export database"})
		return
	}
	c.FileAttachment(h.dbPath, "giraffe_backup.db")
}

// ImportDB replaces the store with an uploaded database file after
// checking its header signature. The process should be restarted afterwards
// so every connection sees the new file.
func (h *Handler) ImportDB(c *gin.Context) {
	file, err := c.FormFile("database")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing database file upload"})
		return
	}
	src, err := file.Open()
	if err != nil {
		h.log.Errorf("import open failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Errorf("import read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	if len(data) < len(sqliteHeader) || !bytes.HasPrefix(data, sqliteHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a SQLite database"})
		return
	}

	tmp := h.dbPath + ".import"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		h.log.Errorf("import write failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write database"})
		return
	}
	if err := os.Rename(tmp, h.dbPath); err != nil {
		os.Remove(tmp)
		h.log.Errorf("import replace failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace database"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database replaced; restart the server to load it"})
}

// AdminStats reports table row counts and the database file size.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		h.log.Errorf("stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}
	out := gin.H{}
	for k, v := range stats {
		out[k] = v
	}
	if info, err := os.Stat(h.dbPath); err == nil {
		out["size_bytes"] = info.Size()
	}
	c.JSON(http.StatusOK, out)
}
