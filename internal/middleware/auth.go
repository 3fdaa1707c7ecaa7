package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classmarket/internal/pkg/jwt"
	"classmarket/internal/pkg/response"
)

// TokenValidator is satisfied by *jwt.Service.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth reads "Authorization: Bearer <token>" and stores user_id and role
// in the gin context.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
