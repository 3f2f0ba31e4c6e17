package middleware

import (
	"net/http"
	"strings"

	"pharmacare-backend/internal/models"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalKey is where the authenticated caller lives in the gin context.
const PrincipalKey = "principal"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, http.StatusUnauthorized, "Token not found.")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, http.StatusUnauthorized, "Malformed token.")
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(parts[1])
		if err != nil || !token.Valid {
			utils.Error(c, http.StatusUnauthorized, "Invalid token.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.Error(c, http.StatusUnauthorized, "Invalid token claims.")
			c.Abort()
			return
		}

		// JWT numbers decode as float64.
		var userID uint64
		if val, ok := claims["user_id"].(float64); ok {
			userID = uint64(val)
		}

		role := models.RoleUser
		if val, ok := claims["role"].(string); ok {
			role = models.Role(val)
		}

		c.Set(PrincipalKey, models.Principal{UserID: userID, Role: role})
		c.Next()
	}
}

// AdminOnly requires a staff role on top of authentication.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(PrincipalKey)
		if !exists || !v.(models.Principal).Role.IsAdmin() {
			utils.Error(c, http.StatusForbidden, "Access denied.")
			c.Abort()
			return
		}
		c.Next()
	}
}
