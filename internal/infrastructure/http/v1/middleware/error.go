package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pxc/internal/core/apperror"
	appctx "pxc/internal/core/context"
	"pxc/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		status := apperror.GetHTTPStatus(err)
		appErr, ok := apperror.AsAppError(err)

		if status >= http.StatusInternalServerError {
			code := apperror.CodeInternal
			if ok {
				code = appErr.Code
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"message", appErr.Message,
					"details", appErr.Details,
					"cause", appErr.Err,
				)
			} else {
				logger.Error(c.Request.Context(), "unhandled error",
					"error", err,
				)
			}
			c.JSON(status, internalBody(c, code))
			return
		}

		if appErr.Err != nil {
			logger.Warn(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		c.JSON(status, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
	}
}

// internalBody is the client view of a 5xx; only the request id is exposed.
func internalBody(c *gin.Context, code string) gin.H {
	return gin.H{
		"code":    code,
		"message": "Internal server error",
		"details": map[string]any{
			"request_id": appctx.GetRequestID(c.Request.Context()),
		},
	}
}
