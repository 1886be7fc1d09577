package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"
	"github.com/gin-gonic/gin"
)

// SnapshotSource yields the joined item records the export documents are
// built from.
type SnapshotSource interface {
	GetItemsForReport() ([]models.FlatItemRecord, error)
}

type ExportHandler struct {
	source SnapshotSource
	pusher *SheetsPusher
}

// NewExportHandler wires the document endpoints. pusher may be nil when
// Google credentials are not configured; the sheets endpoint then reports
// the integration as unavailable.
func NewExportHandler(source SnapshotSource, pusher *SheetsPusher) *ExportHandler {
	return &ExportHandler{source: source, pusher: pusher}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/export/items", h.DownloadItems)
	router.POST("/export/sheets", security.RequireAdministrator(), h.PushToSheets)
}

func (h *ExportHandler) DownloadItems(c *gin.Context) {
	format := c.DefaultQuery("format", "excel")
	if format != "excel" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: excel, pdf"})
		return
	}

	records, err := h.source.GetItemsForReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inventory snapshot"})
		return
	}
	rows := BuildSnapshot(records)

	stamp := time.Now().Format("20060102_1504")
	switch format {
	case "excel":
		buf, err := WriteExcel(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate workbook"})
			return
		}
		filename := fmt.Sprintf("inventory_export_%s.xlsx", stamp)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "pdf":
		buf, err := WritePDF(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
			return
		}
		filename := fmt.Sprintf("inventory_export_%s.pdf", stamp)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

type pushRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" binding:"required"`
}

func (h *ExportHandler) PushToSheets(c *gin.Context) {
	if h.pusher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Sheets integration is not configured"})
		return
	}

	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.source.GetItemsForReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inventory snapshot"})
		return
	}

	count, err := h.pusher.PushSnapshot(req.SpreadsheetID, BuildSnapshot(records))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows_written": count})
}
