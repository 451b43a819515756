package middleware

import (
	"net/http"
	"strings"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth requires a valid "Authorization: Bearer <token>" header.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth sets user_id when a valid token is present and lets anonymous
// requests through. A malformed or invalid token is still rejected.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	required := JWTAuth(tokens)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		required(c)
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.ToLower(parts[0])
	// "Token" is accepted for clients written against token-auth backends
	if scheme != "bearer" && scheme != "token" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
