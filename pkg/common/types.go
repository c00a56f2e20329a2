// Package common provides shared types and utilities used across the TrieRoute framework.
package common

// Decision is the result a middleware returns to the chain executor.
// Returning Proceed allows the remaining chain (and ultimately the handler)
// to run; returning Halt stops the dispatch immediately. Modeling this as an
// explicit return value makes the continue/stop contract unambiguous: there
// is no continuation callback to forget or to invoke twice.
type Decision int

const (
	// Halt stops the remaining middleware chain and the handler.
	// Whatever response the halting middleware already wrote is the
	// final user-visible effect of the dispatch.
	Halt Decision = iota

	// Proceed allows the dispatch to continue with the next middleware
	// or, at the end of the chain, with the handler.
	Proceed
)

// HandlerFunc is a terminal route handler. It receives the per-dispatch
// Context and performs its side effects (writing the response) directly;
// the router does not inspect or transform its output.
type HandlerFunc func(c *Context)

// Middleware is a pre-handler interceptor. It may inspect and modify the
// Context, write to the response, and decide whether the dispatch proceeds.
// Middleware in a chain run strictly in registration order, one at a time.
type Middleware func(c *Context) Decision
