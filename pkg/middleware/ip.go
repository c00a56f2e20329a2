package middleware

import (
	"strings"

	"github.com/trieroute/trieroute/pkg/common"
)

// IPSourceType defines the source for client IP addresses.
type IPSourceType string

const (
	// IPSourceRemoteAddr uses the request's RemoteAddr field.
	IPSourceRemoteAddr IPSourceType = "remote_addr"

	// IPSourceXForwardedFor uses the X-Forwarded-For header.
	IPSourceXForwardedFor IPSourceType = "x_forwarded_for"

	// IPSourceXRealIP uses the X-Real-IP header.
	IPSourceXRealIP IPSourceType = "x_real_ip"

	// IPSourceCustomHeader uses a custom header specified in the configuration.
	IPSourceCustomHeader IPSourceType = "custom_header"
)

// IPConfig defines configuration for client IP extraction.
type IPConfig struct {
	// Source specifies where to extract the client IP from.
	Source IPSourceType

	// CustomHeader is the header to read when Source is IPSourceCustomHeader.
	CustomHeader string

	// TrustProxy determines whether proxy headers like X-Forwarded-For are
	// trusted. If false, RemoteAddr is used regardless of Source.
	TrustProxy bool
}

// DefaultIPConfig returns the default IP configuration.
func DefaultIPConfig() *IPConfig {
	return &IPConfig{
		Source:     IPSourceXForwardedFor,
		TrustProxy: true,
	}
}

// ClientIPKey is the context value key under which the client IP is stored.
const ClientIPKey = "client_ip"

// ClientIP returns the client IP stored on the context by ClientIPMiddleware,
// or an empty string if it has not run.
func ClientIP(c *common.Context) string {
	if ip, ok := c.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}

// ClientIPMiddleware creates a middleware that extracts the client IP from
// the request and stores it on the context. The router installs it as the
// first global middleware so every later middleware can rely on it.
func ClientIPMiddleware(config *IPConfig) Middleware {
	if config == nil {
		config = DefaultIPConfig()
	}

	return func(c *common.Context) common.Decision {
		c.SetValue(ClientIPKey, extractClientIP(c, config))
		return common.Proceed
	}
}

// extractClientIP resolves the client IP according to the configured source.
func extractClientIP(c *common.Context, config *IPConfig) string {
	r := c.Request()
	var ip string

	switch config.Source {
	case IPSourceXRealIP:
		ip = r.Header.Get("X-Real-IP")
	case IPSourceCustomHeader:
		ip = r.Header.Get(config.CustomHeader)
	case IPSourceRemoteAddr:
		ip = r.RemoteAddr
	default:
		// X-Forwarded-For carries a comma-separated list; the leftmost
		// entry is the original client.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ip = strings.TrimSpace(strings.Split(xff, ",")[0])
		}
	}

	if !config.TrustProxy || ip == "" {
		ip = r.RemoteAddr
	}

	return stripPort(ip)
}

// stripPort removes the port from an address if one is present, handling
// bracketed IPv6 forms like "[::1]:8080".
func stripPort(ip string) string {
	if strings.HasPrefix(ip, "[") {
		if end := strings.LastIndex(ip, "]"); end > 0 {
			return ip[:end+1]
		}
		return ip
	}

	// More than one colon without brackets means a bare IPv6 address.
	if strings.Count(ip, ":") > 1 {
		return ip
	}

	if end := strings.LastIndex(ip, ":"); end > 0 {
		return ip[:end]
	}
	return ip
}
