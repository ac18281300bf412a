// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"pxc/internal/core/apperror"
	"pxc/pkg/logger"
)

// Recovery turns a panic into a 500 response.
// The stack trace is logged and never sent to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				"error", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			// ErrorHandler sits inside this frame and was unwound by the panic.
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", rec)))
			c.AbortWithStatusJSON(http.StatusInternalServerError, internalBody(c, apperror.CodeInternal))
		}()
		c.Next()
	}
}
