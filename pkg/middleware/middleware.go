// Package middleware provides a collection of stock middleware components
// for the TrieRoute framework.
package middleware

import (
	"go.uber.org/zap"

	"github.com/trieroute/trieroute/pkg/common"
)

// Use the Middleware type from the common package.
type Middleware = common.Middleware

// Chain combines multiple middlewares into a single middleware that runs
// them in order with the usual halt semantics.
func Chain(middlewares ...Middleware) Middleware {
	return func(c *common.Context) common.Decision {
		for _, m := range middlewares {
			if m(c) != common.Proceed || c.Stopped() {
				return common.Halt
			}
		}
		return common.Proceed
	}
}

// Logging is a middleware that logs each dispatched request. It always
// proceeds; status-code and duration logging live in the dispatcher, which
// sees the response after the handler has run.
func Logging(logger *zap.Logger) Middleware {
	return func(c *common.Context) common.Decision {
		fields := []zap.Field{
			zap.String("method", c.Method),
			zap.String("path", c.Path),
			zap.String("client_ip", ClientIP(c)),
		}
		if traceID := GetTraceID(c); traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}
		logger.Info("Request", fields...)
		return common.Proceed
	}
}
