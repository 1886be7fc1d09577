package items

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/internal/imaging"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/repository"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChangeLogReader returns the recorded audit trail for a single resource.
type ChangeLogReader interface {
	GetResourceLog(id int, resourceType string) ([]models.AuditLog, error)
}

type ItemHandler struct {
	service   *ItemService
	itemRepo  ItemRepository
	changeLog ChangeLogReader
	mediaDir  string
}

func NewItemHandler(service *ItemService, itemRepo ItemRepository, changeLog ChangeLogReader, mediaDir string) *ItemHandler {
	return &ItemHandler{
		service:   service,
		itemRepo:  itemRepo,
		changeLog: changeLog,
		mediaDir:  mediaDir,
	}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/items", h.ListItems)
	router.GET("/items/summary", h.GetSummary)
	router.GET("/items/:id", h.GetItem)
	router.POST("/items", h.CreateItem)
	router.PATCH("/items/:id", h.UpdateItem)
	router.DELETE("/items/:id", security.RequireAdministrator(), h.DeleteItem)
	router.POST("/items/:id/image", h.UploadItemImage)
	router.GET("/items/:id/log", h.GetItemLog)
}

func (h *ItemHandler) GetItemLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	entries, err := h.changeLog.GetResourceLog(id, "item")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	var query struct {
		DeviceTypeID    *int    `form:"device_type_id"`
		StateID         *int    `form:"state_id"`
		ManagesQuantity *bool   `form:"manages_quantity"`
		Brand           string  `form:"brand"`
		Location        string  `form:"location"`
		Query           string  `form:"q"`
		AcquiredFrom    string  `form:"acquired_from"`
		AcquiredTo      string  `form:"acquired_to"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	conditions := repository.NewQueryBuilder()

	if query.DeviceTypeID != nil {
		conditions.AddCondition("device_type_id", *query.DeviceTypeID)
	}
	if query.StateID != nil {
		conditions.AddCondition("state_id", *query.StateID)
	}
	if query.ManagesQuantity != nil {
		conditions.AddCondition("manages_quantity", *query.ManagesQuantity)
	}
	if query.Brand != "" {
		conditions.AddSubstring("brand", query.Brand)
	}
	if query.Location != "" {
		conditions.AddSubstring("location", query.Location)
	}
	if query.Query != "" {
		conditions.AddSearch(query.Query, "serial", "brand", "model", "location")
	}
	if query.AcquiredFrom != "" {
		if _, err := time.Parse(acquisitionDateLayout, query.AcquiredFrom); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid acquired_from date, expected YYYY-MM-DD"})
			return
		}
		conditions.AddMinimum("acquisition_date", query.AcquiredFrom)
	}
	if query.AcquiredTo != "" {
		if _, err := time.Parse(acquisitionDateLayout, query.AcquiredTo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid acquired_to date, expected YYYY-MM-DD"})
			return
		}
		conditions.AddMaximum("acquisition_date", query.AcquiredTo)
	}

	items, err := h.itemRepo.GetItemsBy(conditions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req models.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.GetAccountIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve acting account"})
		return
	}

	item, err := h.service.Create(req, actorID)
	if err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req models.PatchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	item, err := h.service.Update(id, req)
	if err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GetSummary reports the total on-hand unit count alongside the raw record
// count. Serialized items contribute exactly one unit each.
func (h *ItemHandler) GetSummary(c *gin.Context) {
	totalUnits, err := h.service.TotalUnits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary", "details": err.Error()})
		return
	}

	totalRecords, err := h.service.CountItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_units":   totalUnits,
		"total_records": totalRecords,
	})
}

func (h *ItemHandler) UploadItemImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if _, err := h.service.Get(id); err != nil {
		respondItemError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read image file"})
		return
	}
	defer src.Close()

	processed, err := imaging.Process(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image", "details": err.Error()})
		return
	}

	if err := os.MkdirAll(h.mediaDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to store image", "details": err.Error()})
		return
	}

	filename := uuid.NewString() + ".jpg"
	path := filepath.Join(h.mediaDir, filename)
	if err := os.WriteFile(path, processed.Data, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to store image", "details": err.Error()})
		return
	}

	if err := h.itemRepo.UpdateImagePath(id, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to record image path", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_path": path})
}

func respondItemError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	var uniqueErr *apperrors.UniqueViolationError
	var fkErr *apperrors.ForeignKeyViolationError

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	case errors.As(err, &uniqueErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error": "Serial number already registered",
			"field": uniqueErr.Field,
		})
	case errors.As(err, &fkErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Referenced device type or state does not exist",
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}

