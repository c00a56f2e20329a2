package common

// MiddlewareChain represents an ordered chain of middleware.
type MiddlewareChain []Middleware

// NewMiddlewareChain creates a new middleware chain.
func NewMiddlewareChain(middlewares ...Middleware) MiddlewareChain {
	return middlewares
}

// Append adds middleware to the end of the chain.
func (c MiddlewareChain) Append(middlewares ...Middleware) MiddlewareChain {
	return append(c, middlewares...)
}

// Prepend adds middleware to the beginning of the chain.
func (c MiddlewareChain) Prepend(middlewares ...Middleware) MiddlewareChain {
	result := make(MiddlewareChain, len(middlewares)+len(c))
	copy(result, middlewares)
	copy(result[len(middlewares):], c)
	return result
}

// Run executes the chain against ctx, strictly in order and synchronously.
// After each middleware returns, two halt conditions are checked: the
// middleware returned Halt, or the context's stop flag is set. Either one
// stops the remaining chain immediately. Run reports whether every
// middleware proceeded; a false return means the handler (and any chain
// that would follow) must not run.
func (c MiddlewareChain) Run(ctx *Context) bool {
	for _, m := range c {
		if m(ctx) != Proceed || ctx.Stopped() {
			return false
		}
	}
	return true
}
