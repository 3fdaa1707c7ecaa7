package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/response"
)

// ErrorLogger recovers from panics and logs 5xx responses and gin errors.
func ErrorLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logRequestError(log, c, start, "panic", fmt.Sprintf("%v", recovered), "stack", string(debug.Stack()))
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(log, c, start, "http_error", fmt.Sprintf("status=%d", c.Writer.Status()))
				}
				return
			}

			for _, err := range c.Errors {
				logRequestError(log, c, start, fmt.Sprintf("%v", err.Type), err.Error(), "meta", err.Meta)
			}
		}()

		c.Next()
	}
}

func logRequestError(log logger.Logger, c *gin.Context, start time.Time, errType, message string, extra ...interface{}) {
	fields := []interface{}{
		"type", errType,
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
		"user_id", c.GetInt64("user_id"),
		"role", c.GetString("role"),
		"request_id", requestID(c),
		"latency", time.Since(start),
		"error", message,
	}
	log.Error("request_error", append(fields, extra...)...)
}

func requestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}
