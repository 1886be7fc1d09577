package security

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware validates the bearer token and stores the account identity
// in the request context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return signingSecret(), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("accountID", claims["accountID"])
		c.Set("isStaff", claims["isStaff"] == true)
		c.Set("isSuperuser", claims["isSuperuser"] == true)
		c.Next()
	}
}

// RequireAdministrator restricts a route to staff or superuser accounts.
// The authorization check runs before any mutation.
func RequireAdministrator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdministrator(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// IsAdministrator reports whether the request carries staff or superuser
// rights.
func IsAdministrator(c *gin.Context) bool {
	return c.GetBool("isStaff") || c.GetBool("isSuperuser")
}

// GetAccountIDFromContext extracts the authenticated account id set by
// JWTMiddleware.
func GetAccountIDFromContext(c *gin.Context) (int, error) {
	raw, ok := c.Get("accountID")
	if !ok {
		return 0, fmt.Errorf("no account identity in context")
	}

	idString, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("accountID is not a string")
	}

	id, err := strconv.Atoi(idString)
	if err != nil {
		return 0, fmt.Errorf("accountID is not numeric: %w", err)
	}

	return id, nil
}
