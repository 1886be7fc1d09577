package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	service    *UserService
	repository AccountRepository
}

func NewHandler(service *UserService, repository AccountRepository) *UsersHandler {
	return &UsersHandler{
		service:    service,
		repository: repository,
	}
}

// RegisterPublicRoutes exposes self-registration; everything else requires a
// session.
func (h *UsersHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.POST("/auth/register", h.RegisterAccount)
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/accounts", security.RequireAdministrator(), h.CreateAccount)
	router.GET("/accounts", security.RequireAdministrator(), h.GetAccountList)
	router.GET("/accounts/:id", h.GetAccount)
	router.PATCH("/accounts/:id", h.UpdateAccount)
	router.DELETE("/accounts/:id", security.RequireAdministrator(), h.DeleteAccount)
	router.POST("/accounts/approval", security.RequireAdministrator(), h.SetApproval)
}

func (h *UsersHandler) RegisterAccount(c *gin.Context) {
	var req models.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	account, err := h.service.Register(req)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Registration is pending administrator approval.",
		"account": account,
	})
}

func (h *UsersHandler) CreateAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	account, err := h.service.CreateAccount(req, actorFromContext(c))
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *UsersHandler) GetAccount(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	if !h.isAllowed(c, accountID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
		return
	}

	account, err := h.repository.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *UsersHandler) GetAccountList(c *gin.Context) {
	accounts, err := h.repository.GetAccounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of accounts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *UsersHandler) UpdateAccount(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	if !h.isAllowed(c, accountID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
		return
	}

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	changes := &models.AccountChanges{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	// Only administrators may toggle the active flag. The approval flag is
	// never touched here; deactivation must not revoke a granted approval.
	if req.IsActive != nil {
		if !security.IsAdministrator(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "Only administrators can change the active flag"})
			return
		}
		changes.IsActive = req.IsActive
	}

	if !changes.HasChanges() {
		account, err := h.repository.GetAccount(accountID)
		if err != nil {
			respondAccountError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
		return
	}

	if err := h.repository.UpdateAccount(accountID, changes); err != nil {
		respondAccountError(c, err)
		return
	}

	account, err := h.repository.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *UsersHandler) DeleteAccount(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	if err := h.repository.DeleteAccount(accountID); err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *UsersHandler) SetApproval(c *gin.Context) {
	var req models.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	updated, err := h.service.SetApproval(req.AccountIDs, *req.Approved, actorFromContext(c))
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Approval flags updated",
		"updated": updated,
	})
}

func (h *UsersHandler) isAllowed(c *gin.Context, accountID int) bool {
	authID, err := security.GetAccountIDFromContext(c)
	if err != nil {
		return false
	}

	return authID == accountID || security.IsAdministrator(c)
}

func actorFromContext(c *gin.Context) Actor {
	actorID, _ := security.GetAccountIDFromContext(c)
	return Actor{
		ID:          actorID,
		IsStaff:     c.GetBool("isStaff"),
		IsSuperuser: c.GetBool("isSuperuser"),
	}
}

func respondAccountError(c *gin.Context, err error) {
	var uniqueErr *apperrors.UniqueViolationError

	switch {
	case errors.As(err, &uniqueErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error": "Email already registered",
			"field": uniqueErr.Field,
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Account not found", "code": "ACCOUNT_NOT_FOUND"})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}
