package middleware

import (
	"github.com/google/uuid"

	"github.com/trieroute/trieroute/pkg/common"
)

// TraceIDKey is the context value key under which the trace ID is stored.
const TraceIDKey = "trace_id"

// Trace creates a middleware that generates a unique trace ID for each
// dispatch and stores it on the request context, so downstream middleware
// and handlers can correlate their logs.
func Trace() Middleware {
	return func(c *common.Context) common.Decision {
		c.SetValue(TraceIDKey, uuid.New().String())
		return common.Proceed
	}
}

// GetTraceID extracts the trace ID from the context.
// Returns an empty string if no trace ID is present.
func GetTraceID(c *common.Context) string {
	if traceID, ok := c.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}
