package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pxc/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// Probes under /health are logged at debug level only.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		l := log.WithContext(c.Request.Context())
		write := l.Infow
		switch {
		case strings.HasPrefix(path, "/health"):
			write = l.Debugw
		case status >= 500:
			write = l.Errorw
		case status >= 400:
			write = l.Warnw
		}

		write("http request",
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
