package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// ErrorLogger logs every request through slog and turns panics into a 500 envelope.
func ErrorLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					append(requestAttrs(c, start),
						slog.String("panic", fmt.Sprint(recovered)),
						slog.String("stack", string(debug.Stack())))...)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			attrs := requestAttrs(c, start)
			for _, err := range c.Errors {
				attrs = append(attrs, logging.Err(err.Err))
			}

			status := c.Writer.Status()
			switch {
			case status >= http.StatusInternalServerError || len(c.Errors) > 0:
				logger.Error("request failed", attrs...)
			case status >= http.StatusBadRequest:
				logger.Warn("request rejected", attrs...)
			default:
				logger.Info("request", attrs...)
			}
		}()

		c.Next()
	}
}

func requestAttrs(c *gin.Context, start time.Time) []any {
	return []any{
		slog.Int("status", c.Writer.Status()),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.String("client_ip", c.ClientIP()),
		slog.Int64("user_id", c.GetInt64(ContextUserID)),
		slog.String("request_id", c.GetString("request_id")),
		slog.Duration("latency", time.Since(start)),
	}
}
