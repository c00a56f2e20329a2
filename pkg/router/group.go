package router

import (
	"net/http"

	"github.com/trieroute/trieroute/pkg/common"
)

// Group represents a set of routes sharing a common path prefix and an
// ordered list of shared middleware. Group middleware run before any
// route-specific middleware, in the order the groups were nested.
type Group struct {
	router      *Router
	prefix      string
	middlewares []common.Middleware
}

// Group creates a route group rooted at prefix. Middleware given here apply
// to every route registered through the group.
func (r *Router) Group(prefix string, middlewares ...common.Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      prefix,
		middlewares: middlewares,
	}
}

// Group creates a nested group. The child's prefix is appended to the
// parent's, and the parent's middleware run before the child's.
func (g *Group) Group(prefix string, middlewares ...common.Middleware) *Group {
	merged := make([]common.Middleware, 0, len(g.middlewares)+len(middlewares))
	merged = append(merged, g.middlewares...)
	merged = append(merged, middlewares...)
	return &Group{
		router:      g.router,
		prefix:      g.prefix + prefix,
		middlewares: merged,
	}
}

// Register registers a route under the group's prefix with the group's
// middleware running before the route's own.
func (g *Group) Register(method, path string, middlewares []common.Middleware, handler common.HandlerFunc) {
	merged := make([]common.Middleware, 0, len(g.middlewares)+len(middlewares))
	merged = append(merged, g.middlewares...)
	merged = append(merged, middlewares...)
	g.router.Register(method, g.prefix+path, merged, handler)
}

// Handle registers a route under the group's prefix using the variadic
// trailing-handler convention described on Router.Handle.
func (g *Group) Handle(method, path string, args ...any) {
	middlewares, handler := normalizeRoute(method, g.prefix+path, args)
	g.Register(method, path, middlewares, handler)
}

// Get registers a GET route under the group's prefix.
func (g *Group) Get(path string, args ...any) {
	g.Handle(http.MethodGet, path, args...)
}

// Post registers a POST route under the group's prefix.
func (g *Group) Post(path string, args ...any) {
	g.Handle(http.MethodPost, path, args...)
}

// Put registers a PUT route under the group's prefix.
func (g *Group) Put(path string, args ...any) {
	g.Handle(http.MethodPut, path, args...)
}

// Delete registers a DELETE route under the group's prefix.
func (g *Group) Delete(path string, args ...any) {
	g.Handle(http.MethodDelete, path, args...)
}

// Patch registers a PATCH route under the group's prefix.
func (g *Group) Patch(path string, args ...any) {
	g.Handle(http.MethodPatch, path, args...)
}
