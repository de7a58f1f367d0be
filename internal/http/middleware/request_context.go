package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jellyjae/cliftonstrengths/internal/platform/ctxutil"
	"github.com/jellyjae/cliftonstrengths/internal/platform/deviceid"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
	HeaderDeviceID  = "X-Device-Id"
)

// AttachRequestContext puts trace, request and device ids on the request
// context and echoes the first two back. A missing or malformed X-Device-Id
// leaves DeviceID empty, since the legacy POST routes may carry it in the body.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
		if traceID == "" {
			if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
				traceID = spanCtx.TraceID().String()
			}
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}
		rd := &ctxutil.RequestData{TraceID: traceID, RequestID: reqID}
		if id, ok := deviceid.Normalize(c.GetHeader(HeaderDeviceID)); ok {
			rd.DeviceID = id
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
