package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/utils"
	"github.com/staynest/booking/utils/jwt_parse"
)

// AuthMiddleware validates the bearer token and guarantees a user ID is
// present in the context. Identity itself is issued by an external service;
// this core only consumes its tokens.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwt_parse.ParseJWTToken()(c)
		if c.IsAborted() {
			return
		}

		if _, exists := c.Get("user_id"); !exists {
			logger.ErrorLogger.Error("User ID not found in context after JWT parsing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: missing user identification"})
			return
		}

		c.Next()
	}
}

// RequireRole aborts with 403 unless the token carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetUserRoleFromContext(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient role"})
			return
		}
		c.Next()
	}
}

const (
	RoleTenant = "TENANT"
	RoleGuest  = "USER"
)
