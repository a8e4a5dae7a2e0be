// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"barinalp/internal/core/apperror"
	appctx "barinalp/internal/core/context"
	"barinalp/pkg/logger"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR response.
// Recovery writes the response itself: ErrorHandler runs inside it and is
// skipped by the unwinding panic. The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic in %s %s: %v", c.Request.Method, c.FullPath(), rec))
			if requestID := appctx.GetRequestID(c.Request.Context()); requestID != "" {
				appErr = appErr.WithDetail("request_id", requestID)
			}
			_ = c.Error(appErr)
			c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			})
		}()
		c.Next()
	}
}
