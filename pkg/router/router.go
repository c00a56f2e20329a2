package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/trieroute/trieroute/pkg/common"
	"github.com/trieroute/trieroute/pkg/metrics"
	"github.com/trieroute/trieroute/pkg/middleware"
	"go.uber.org/zap"
)

// Router is the main router struct that implements http.Handler.
// It holds one route tree per HTTP method, the global middleware chain, and
// the dispatch pipeline that threads each request through the global chain,
// the matched route's chain, and finally the handler.
//
// Registration is expected to complete before the router starts serving.
// Once frozen, the route trees are read-only and safe for concurrent
// dispatch; there is no locking on the lookup path.
type Router struct {
	config      RouterConfig
	logger      *zap.Logger
	trees       map[string]*tree
	middlewares common.MiddlewareChain
	collector   *metrics.Collector
	limiter     middleware.RateLimiter
	wg          sync.WaitGroup
	shutdown    bool
	shutdownMu  sync.RWMutex
}

// New creates a new Router with the given configuration.
// It sets up logging, prepends the client IP middleware so the IP is
// available to every other middleware, and wires the global rate limit and
// metrics collector when configured.
func New(config RouterConfig) *Router {
	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	r := &Router{
		config: config,
		logger: logger,
		trees:  make(map[string]*tree),
	}

	ipConfig := config.IPConfig
	if ipConfig == nil {
		ipConfig = middleware.DefaultIPConfig()
	}
	r.middlewares = common.NewMiddlewareChain(middleware.ClientIPMiddleware(ipConfig)).Append(config.Middlewares...)

	if config.GlobalRateLimit != nil {
		r.limiter = middleware.NewUberRateLimiter()
		r.middlewares = r.middlewares.Append(middleware.RateLimit(config.GlobalRateLimit, r.limiter, logger))
	}

	if config.EnableMetrics {
		r.collector = config.MetricsCollector
		if r.collector == nil {
			r.collector = metrics.NewCollector(config.MetricsNamespace)
		}
	}

	return r
}

// Metrics returns the router's metrics collector, or nil when metrics are
// disabled. The collector's Handler can be mounted to expose the metrics.
func (r *Router) Metrics() *metrics.Collector {
	return r.collector
}

// Register registers a route with an explicit, ordered middleware list and a
// handler. This is the strongly-typed core of the registration API; Handle
// and the verb aliases are thin wrappers over it. Registering the same
// method and path twice overwrites the earlier route: last registration
// wins. A nil handler is a programming error and panics at registration
// time rather than surfacing at request time.
func (r *Router) Register(method, path string, middlewares []common.Middleware, handler common.HandlerFunc) {
	if handler == nil {
		panic("router: nil handler registered for " + method + " " + path)
	}

	t, ok := r.trees[method]
	if !ok {
		// Trees are created on demand, so unknown methods work too.
		t = newTree()
		r.trees[method] = t
	}
	t.insert(path, middlewares, handler)

	r.logger.Debug("Route registered",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("middlewares", len(middlewares)),
	)
}

// Handle registers a route using the variadic trailing-handler convention:
// every argument before the last must be a middleware or an ordered slice of
// middleware (flattened one level, relative order preserved), and the last
// argument is always the handler. Malformed registrations panic immediately.
func (r *Router) Handle(method, path string, args ...any) {
	middlewares, handler := normalizeRoute(method, path, args)
	r.Register(method, path, middlewares, handler)
}

// Get registers a GET route. See Handle for the argument convention.
func (r *Router) Get(path string, args ...any) {
	r.Handle(http.MethodGet, path, args...)
}

// Post registers a POST route. See Handle for the argument convention.
func (r *Router) Post(path string, args ...any) {
	r.Handle(http.MethodPost, path, args...)
}

// Put registers a PUT route. See Handle for the argument convention.
func (r *Router) Put(path string, args ...any) {
	r.Handle(http.MethodPut, path, args...)
}

// Delete registers a DELETE route. See Handle for the argument convention.
func (r *Router) Delete(path string, args ...any) {
	r.Handle(http.MethodDelete, path, args...)
}

// Patch registers a PATCH route. See Handle for the argument convention.
func (r *Router) Patch(path string, args ...any) {
	r.Handle(http.MethodPatch, path, args...)
}

// Use appends middleware to the global chain, in the order given. Values
// that are not middleware are silently ignored; this mirrors the lenient
// historical contract of the global-middleware edge, unlike route
// registration which fails fast.
func (r *Router) Use(args ...any) {
	for _, a := range args {
		if m, ok := toMiddleware(a); ok {
			r.middlewares = r.middlewares.Append(m)
			continue
		}
		if ms, ok := a.([]common.Middleware); ok {
			r.middlewares = r.middlewares.Append(ms...)
			continue
		}
		r.logger.Warn("Ignoring non-middleware value passed to Use",
			zap.String("type", fmt.Sprintf("%T", a)),
		)
	}
}

// normalizeRoute flattens the variadic registration arguments into one
// ordered middleware list plus the trailing handler.
func normalizeRoute(method, path string, args []any) ([]common.Middleware, common.HandlerFunc) {
	if len(args) == 0 {
		panic("router: no handler registered for " + method + " " + path)
	}

	handler, ok := toHandler(args[len(args)-1])
	if !ok {
		panic(fmt.Sprintf("router: last argument for %s %s must be a handler, got %T", method, path, args[len(args)-1]))
	}

	var middlewares []common.Middleware
	for i, a := range args[:len(args)-1] {
		if m, ok := toMiddleware(a); ok {
			middlewares = append(middlewares, m)
			continue
		}
		if ms, ok := a.([]common.Middleware); ok {
			middlewares = append(middlewares, ms...)
			continue
		}
		panic(fmt.Sprintf("router: argument %d for %s %s is not middleware, got %T", i, method, path, a))
	}

	return middlewares, handler
}

func toMiddleware(v any) (common.Middleware, bool) {
	switch m := v.(type) {
	case common.Middleware:
		return m, true
	case func(*common.Context) common.Decision:
		return m, true
	}
	return nil, false
}

func toHandler(v any) (common.HandlerFunc, bool) {
	switch h := v.(type) {
	case common.HandlerFunc:
		return h, true
	case func(*common.Context):
		return h, true
	}
	return nil, false
}

// lookup resolves method and path against the route trees. An unknown
// method has no tree, which is indistinguishable from not-found.
func (r *Router) lookup(method, path string) (*match, bool) {
	t, ok := r.trees[method]
	if !ok {
		return nil, false
	}
	return t.lookup(path)
}

// effectivePath strips the configured mount prefix from the raw request
// path. A stripped-empty path matches the root route.
func (r *Router) effectivePath(raw string) string {
	prefix := r.config.PathPrefix
	if prefix == "" || !strings.HasPrefix(raw, prefix) {
		return raw
	}
	trimmed := raw[len(prefix):]
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// ServeHTTP implements the http.Handler interface. It runs the full
// dispatch pipeline: mount-prefix strip, route lookup, context construction,
// global middleware chain, route middleware chain, handler. A lookup miss
// produces a 404; a halted chain ends the dispatch with whatever the halting
// middleware already wrote. Panics from user-supplied middleware and
// handlers are not recovered here; they propagate to the hosting server's
// own error boundary.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Add to the wait group before checking shutdown status so Shutdown
	// never misses an in-flight request.
	r.wg.Add(1)

	r.shutdownMu.RLock()
	isShutdown := r.shutdown
	r.shutdownMu.RUnlock()

	if isShutdown {
		r.wg.Done()
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	defer r.wg.Done()

	path := r.effectivePath(req.URL.Path)

	var rw http.ResponseWriter = w
	if r.config.EnableMetrics || r.config.EnableTracing {
		srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		rw = srw
		start := time.Now()

		defer func() {
			duration := time.Since(start)

			if r.collector != nil {
				r.collector.Observe(req.Method, path, srw.statusCode, duration, srw.bytesWritten)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", path),
				zap.Int("status", srw.statusCode),
				zap.Duration("duration", duration),
				zap.Int64("bytes", srw.bytesWritten),
			}

			// Debug level for the per-request trace to avoid log spam.
			if r.config.EnableTracing {
				r.logger.Debug("Request trace", fields...)
			}
			if duration > time.Second {
				r.logger.Warn("Slow request", fields...)
			}
			switch {
			case srw.statusCode >= 500:
				r.logger.Error("Server error", fields...)
			case srw.statusCode >= 400:
				r.logger.Warn("Client error", fields...)
			}
		}()
	}

	m, ok := r.lookup(req.Method, path)
	if !ok {
		r.logger.Debug("No route matched",
			zap.String("method", req.Method),
			zap.String("path", path),
		)
		r.notFound(rw, req)
		return
	}

	c := common.NewContext(rw, req, path, m.params)

	if !r.middlewares.Run(c) {
		r.logger.Debug("Dispatch halted by global middleware",
			zap.String("method", req.Method),
			zap.String("path", path),
		)
		return
	}

	if !common.MiddlewareChain(m.middlewares).Run(c) {
		r.logger.Debug("Dispatch halted by route middleware",
			zap.String("method", req.Method),
			zap.String("path", path),
		)
		return
	}

	m.handler(c)
}

// notFound emits the 404 response, using the configured handler if present.
func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	if r.config.NotFoundHandler != nil {
		r.config.NotFoundHandler.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

// Shutdown gracefully shuts down the router. It stops accepting new
// requests and waits for in-flight requests to complete. If the context is
// canceled before all requests complete, it returns the context's error.
func (r *Router) Shutdown(ctx context.Context) error {
	r.shutdownMu.Lock()
	r.shutdown = true
	r.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// statusResponseWriter is a wrapper around http.ResponseWriter that captures
// the status code and the number of bytes written, so the dispatcher can log
// and observe the outcome of each request.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

// WriteHeader captures the status code and calls the underlying WriteHeader.
func (rw *statusResponseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write captures the number of bytes written and calls the underlying Write.
func (rw *statusResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush calls the underlying Flush if the writer implements http.Flusher.
func (rw *statusResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
