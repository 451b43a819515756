package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS reflects allowed origins with credentials. Preflight requests end here,
// before the auth middleware runs.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Authorization", "Accept", "Origin", "X-Requested-With", requestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	})
}
