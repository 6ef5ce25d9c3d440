package middleware

import (
	"errors"
	"strings"

	"github.com/xyz-asif/nexcrm/internal/pkg/jwt"
	"github.com/xyz-asif/nexcrm/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Auth requires a valid access token and stores its identity on the context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_MISSING")
			c.Abort()
			return
		}

		// Support both "Bearer <token>" (case-insensitive) and raw token in header
		fields := strings.Fields(authHeader)
		var tokenString string
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			tokenString = fields[1]
		} else {
			tokenString = authHeader
		}

		claims, err := jwt.ValidateToken(tokenString, secret)
		if errors.Is(err, jwt.ErrTokenExpired) {
			response.Unauthorized(c, "Token expired", "AUTH_TOKEN_EXPIRED")
			c.Abort()
			return
		}
		if err != nil {
			response.Unauthorized(c, "Invalid token", "AUTH_INVALID_TOKEN")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// CurrentUser returns the identity Auth stored on the context.
func CurrentUser(c *gin.Context) (userID, username string, ok bool) {
	userID = c.GetString("userID")
	username = c.GetString("username")
	return userID, username, userID != ""
}
