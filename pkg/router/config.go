// Package router provides a segment-trie HTTP routing framework.
// It supports named path parameters, ordered middleware chains with explicit
// continue/stop semantics, route groups, and various configuration options.
package router

import (
	"fmt"
	"net/http"

	"github.com/trieroute/trieroute/pkg/common"
	"github.com/trieroute/trieroute/pkg/metrics"
	"github.com/trieroute/trieroute/pkg/middleware"
	"go.uber.org/zap"
)

// RouterConfig defines the global configuration for the router.
// It includes settings for logging, the mount prefix, metrics, and middleware.
type RouterConfig struct {
	Logger           *zap.Logger                  // Logger for all router operations
	PathPrefix       string                       // Mount prefix stripped from incoming paths before matching
	NotFoundHandler  http.Handler                 // Handler invoked when no route matches (default: http.NotFound)
	Middlewares      []common.Middleware          // Global middlewares applied to all routes
	IPConfig         *middleware.IPConfig         // Configuration for client IP extraction
	GlobalRateLimit  *middleware.RateLimitConfig  // Default rate limit applied to all routes
	EnableMetrics    bool                         // Enable prometheus metrics collection
	EnableTracing    bool                         // Enable per-request trace logging
	MetricsNamespace string                       // Namespace for prometheus metrics (used when no collector is supplied)
	MetricsCollector *metrics.Collector           // Collector to observe requests with (optional; built from MetricsNamespace if nil)
}

// HTTPError represents an HTTP error with a status code and message.
// Handlers can use it to describe the exact error response they want to send.
type HTTPError struct {
	StatusCode int    // HTTP status code (e.g., 400, 404, 500)
	Message    string // Error message to be sent in the response body
}

// Error implements the error interface.
// It returns a string representation in the format "status: message".
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the specified status code and message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}
