package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "barinalp/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware adds request tracing context.
// Incoming IDs are reused so a submission can be followed across the webhook hop.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext()
		if incoming := c.GetHeader(HeaderRequestID); incoming != "" {
			trace.RequestID = incoming
		}
		if incoming := c.GetHeader(HeaderTraceID); incoming != "" {
			trace.TraceID = incoming
		}
		requestID, traceID := trace.RequestID, trace.TraceID

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))

		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
