package backup

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"
	"github.com/gin-gonic/gin"
)

// restores require this exact phrase so a mistyped request cannot wipe
// the database
const confirmationPhrase = "overwrite current database"

const maxDumpSize = 256 << 20

type BackupHandler struct {
	service *Service
}

func NewBackupHandler(service *Service) *BackupHandler {
	return &BackupHandler{service: service}
}

func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/backup/dump", security.RequireAdministrator(), h.Download)
	router.POST("/backup/restore", security.RequireAdministrator(), h.Restore)
}

func (h *BackupHandler) Download(c *gin.Context) {
	dump, err := h.service.Dump(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	filename := fmt.Sprintf("inventory_backup_%s.sql", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/sql", dump)
}

func (h *BackupHandler) Restore(c *gin.Context) {
	if c.PostForm("confirmation") != confirmationPhrase {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("restore requires the confirmation field set to %q", confirmationPhrase),
		})
		return
	}

	file, _, err := c.Request.FormFile("dump")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dump file is required"})
		return
	}
	defer file.Close()

	dump, err := io.ReadAll(io.LimitReader(file, maxDumpSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read dump file"})
		return
	}

	if err := h.service.Restore(c.Request.Context(), dump); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Restore failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database restored"})
}
