package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	repository CatalogRepository
}

func NewCatalogHandler(repository CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repository: repository}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/catalog/device-types", h.GetDeviceTypes)
	router.POST("/catalog/device-types", security.RequireAdministrator(), h.CreateDeviceType)
	router.DELETE("/catalog/device-types/:id", security.RequireAdministrator(), h.DeleteDeviceType)
	router.GET("/catalog/states", h.GetItemStates)
	router.POST("/catalog/states", security.RequireAdministrator(), h.CreateItemState)
	router.DELETE("/catalog/states/:id", security.RequireAdministrator(), h.DeleteItemState)
}

func (h *CatalogHandler) GetDeviceTypes(c *gin.Context) {
	deviceTypes, err := h.repository.GetDeviceTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch device types", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, deviceTypes)
}

func (h *CatalogHandler) CreateDeviceType(c *gin.Context) {
	var req models.DeviceType
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Device type name must not be empty"})
		return
	}

	deviceType, err := h.repository.PersistDeviceType(req)
	if err != nil {
		respondCatalogError(c, err, "Device type name already exists")
		return
	}

	c.JSON(http.StatusCreated, deviceType)
}

func (h *CatalogHandler) DeleteDeviceType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return
	}

	if err := h.repository.DeleteDeviceType(id); err != nil {
		respondCatalogError(c, err, "Cannot delete device type: inventory items still reference it")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device type deleted successfully"})
}

func (h *CatalogHandler) GetItemStates(c *gin.Context) {
	states, err := h.repository.GetItemStates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item states", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, states)
}

func (h *CatalogHandler) CreateItemState(c *gin.Context) {
	var req models.ItemState
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item state name must not be empty"})
		return
	}

	state, err := h.repository.PersistItemState(req)
	if err != nil {
		respondCatalogError(c, err, "Item state name already exists")
		return
	}

	c.JSON(http.StatusCreated, state)
}

func (h *CatalogHandler) DeleteItemState(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return
	}

	if err := h.repository.DeleteItemState(id); err != nil {
		respondCatalogError(c, err, "Cannot delete item state: inventory items still reference it")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item state deleted successfully"})
}

func respondCatalogError(c *gin.Context, err error, conflictMessage string) {
	var uniqueErr *apperrors.UniqueViolationError
	var fkErr *apperrors.ForeignKeyViolationError

	switch {
	case errors.As(err, &uniqueErr), errors.As(err, &fkErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": conflictMessage})
	case errors.Is(err, apperrors.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Catalog entry not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}
