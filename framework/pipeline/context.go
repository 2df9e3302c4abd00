package pipeline

import (
	"net/url"
	"time"

	"github.com/voyage-web/voyage/framework/container"
)

// Context is the layered request model: created once per ProcessRequest,
// passed by reference through the whole middleware chain and into the
// terminal stage.
type Context struct {
	// ID correlates log lines for one request.
	ID string

	RawURL string
	Path   string
	Method string
	Query  url.Values

	// Scope is the request's container scope, cleared when the request ends.
	Scope *container.Container

	Start time.Time

	// Result is the dispatch outcome flowing back out through the chain.
	Result any

	values map[string]any
}

// Set attaches a derived value to the request, for later middleware or the
// terminal stage to read.
func (c *Context) Set(key string, v any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = v
}

// Get reads a value attached with Set.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Input flattens the query parameters into the raw-input shape the
// dispatcher binds from: first value per key.
func (c *Context) Input() map[string]any {
	out := make(map[string]any, len(c.Query))
	for k, vs := range c.Query {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// PathQuery returns the request's path plus raw query, the identity used for
// navigation idempotence checks. Fragments never reach here.
func (c *Context) PathQuery() string {
	if len(c.Query) == 0 {
		return c.Path
	}
	return c.Path + "?" + c.Query.Encode()
}
