package router

import (
	"strings"

	"github.com/trieroute/trieroute/pkg/common"
)

// paramKey is the reserved child key shared by every parametric segment at a
// given tree position. Registering two differently-named parameters at the
// same position therefore collides on this slot: the last registration wins.
const paramKey = ":"

// node is one route-tree node per path segment level. A node with a non-nil
// handler represents exactly one fully-registered route. A node may have
// children and no handler (an intermediate path prefix); looking up that
// exact path is a miss, it never falls through to a child.
type node struct {
	children    map[string]*node
	handler     common.HandlerFunc
	middlewares []common.Middleware
	isParam     bool
	paramName   string
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// tree is the prefix tree for a single HTTP method.
type tree struct {
	root *node
}

func newTree() *tree {
	return &tree{root: newNode()}
}

// splitPath breaks a slash-delimited path into its non-empty segments.
// Leading, trailing, and repeated slashes contribute nothing, so "/" (and
// the empty path) parse to zero segments: the root route.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// insert registers a handler and its route-scoped middleware at path,
// creating intermediate nodes as needed. Registering the same path twice
// overwrites the previous handler and middleware: last registration wins.
func (t *tree) insert(path string, middlewares []common.Middleware, handler common.HandlerFunc) {
	cur := t.root
	for _, seg := range splitPath(path) {
		key := seg
		name := ""
		if strings.HasPrefix(seg, paramKey) {
			key = paramKey
			name = seg[1:]
		}

		child, ok := cur.children[key]
		if !ok {
			child = newNode()
			cur.children[key] = child
		}
		if key == paramKey {
			// Last registration wins for the parametric slot's name.
			child.isParam = true
			child.paramName = name
		}
		cur = child
	}

	cur.handler = handler
	cur.middlewares = middlewares
}

// match is the result of a successful lookup.
type match struct {
	handler     common.HandlerFunc
	middlewares []common.Middleware
	params      map[string]string
}

// lookup resolves a request path against the tree. At each level an exact
// literal child wins; otherwise the parametric child is taken and the
// segment value is captured under its declared name. There is no
// backtracking: once a literal child is chosen at a level, the parametric
// sibling at that same level is never retried, even if the literal branch
// dead-ends further down. Cost is O(path segments), independent of how many
// routes are registered.
func (t *tree) lookup(path string) (*match, bool) {
	cur := t.root
	var params map[string]string

	for _, seg := range splitPath(path) {
		if child, ok := cur.children[seg]; ok && seg != paramKey {
			cur = child
			continue
		}

		child, ok := cur.children[paramKey]
		if !ok {
			return nil, false
		}
		if params == nil {
			params = make(map[string]string)
		}
		// A repeated parameter name along the path overwrites the
		// earlier capture.
		params[child.paramName] = seg
		cur = child
	}

	if cur.handler == nil {
		return nil, false
	}
	return &match{handler: cur.handler, middlewares: cur.middlewares, params: params}, true
}
