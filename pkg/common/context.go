package common

import (
	"encoding/json"
	"net/http"
)

// Context carries the state of a single in-flight dispatch. It holds the
// captured path parameters, the ambient request values (query string and
// parsed form body, flattened into one string-keyed map), and the stop flag
// middleware may set to halt the chain. A Context is created fresh for each
// dispatch, is owned exclusively by that dispatch, and must not be retained
// or shared across requests.
type Context struct {
	// Method is the HTTP method of the inbound request.
	Method string

	// Path is the effective request path after the mount prefix has been
	// stripped. This is the path the route tree matched against.
	Path string

	writer  http.ResponseWriter
	request *http.Request
	params  map[string]string
	values  map[string]any
	stopped bool
}

// NewContext builds a Context for one dispatch. The ambient request values
// (query string plus form body fields, if the request carries a parseable
// form) are flattened into the context's value map; path parameters are kept
// separately and take precedence in Param.
func NewContext(w http.ResponseWriter, r *http.Request, path string, params map[string]string) *Context {
	if params == nil {
		params = make(map[string]string)
	}

	c := &Context{
		Method:  r.Method,
		Path:    path,
		writer:  w,
		request: r,
		params:  params,
		values:  make(map[string]any),
	}

	// r.Form merges the query string with any urlencoded body fields.
	if err := r.ParseForm(); err == nil {
		for key, vals := range r.Form {
			if len(vals) > 0 {
				c.values[key] = vals[0]
			}
		}
	}

	return c
}

// Param returns the captured value of a named path parameter, or the empty
// string if the route declared no parameter with that name.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Params returns the full parameter map for this dispatch. The map is owned
// by the context; callers must not mutate it.
func (c *Context) Params() map[string]string {
	return c.params
}

// Query returns a query string value directly from the request URL.
func (c *Context) Query(key string) string {
	return c.request.URL.Query().Get(key)
}

// Value returns an ambient request value or a value stored by an earlier
// middleware via SetValue. Returns nil if the key is absent.
func (c *Context) Value(key string) any {
	return c.values[key]
}

// SetValue stores a value on the context for later middleware and the
// handler to read.
func (c *Context) SetValue(key string, value any) {
	c.values[key] = value
}

// Stop sets the stop flag. The chain executor checks the flag after every
// middleware call, so the remaining chain and the handler are skipped even
// if the middleware that called Stop returned Proceed.
func (c *Context) Stop() {
	c.stopped = true
}

// Stopped reports whether the stop flag has been set.
func (c *Context) Stopped() bool {
	return c.stopped
}

// Writer returns the response writer for this dispatch.
func (c *Context) Writer() http.ResponseWriter {
	return c.writer
}

// Request returns the underlying inbound request.
func (c *Context) Request() *http.Request {
	return c.request
}

// Status writes the response header with the given status code.
func (c *Context) Status(code int) {
	c.writer.WriteHeader(code)
}

// JSON serializes v as a JSON response body with the given status code.
func (c *Context) JSON(code int, v any) error {
	c.writer.Header().Set("Content-Type", "application/json")
	c.writer.WriteHeader(code)
	return json.NewEncoder(c.writer).Encode(v)
}

// String writes a plain-text response body with the given status code.
func (c *Context) String(code int, body string) error {
	c.writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.writer.WriteHeader(code)
	_, err := c.writer.Write([]byte(body))
	return err
}

// BindJSON decodes the request body as JSON into v.
func (c *Context) BindJSON(v any) error {
	defer c.request.Body.Close()
	return json.NewDecoder(c.request.Body).Decode(v)
}

// Redirect sends a redirect response to the given URL.
func (c *Context) Redirect(url string, code int) {
	http.Redirect(c.writer, c.request, url, code)
}
