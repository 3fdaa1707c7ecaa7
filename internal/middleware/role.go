package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classmarket/internal/pkg/jwt"
	"classmarket/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the roles.
// It checks identity only; which partner's data a caller may read is
// decided by the handler.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin)
}

func PartnerOnly() gin.HandlerFunc {
	return RequireRole(jwt.RolePartner)
}
