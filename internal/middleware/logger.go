package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates or assigns X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = logging.Error()
		case status >= http.StatusBadRequest:
			ev = logging.Warn()
		default:
			ev = logging.Info()
		}

		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int64("user_id", UserID(c)).
			Str("request_id", c.GetString("request_id")).
			Msg("request")
	}
}

// Recovery turns panics into a 500 envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logging.Error().
					Str("panic", fmt.Sprintf("%v", recovered)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString("request_id")).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			}
		}()

		c.Next()
	}
}
