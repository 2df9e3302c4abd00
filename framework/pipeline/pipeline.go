package pipeline

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voyage-web/voyage/framework/container"
)

// Next invokes the remainder of the chain. A middleware that never calls it
// short-circuits: no later middleware and no terminal stage runs.
type Next func() error

// Middleware wraps the rest of the chain. Code before the Next call runs on
// the way in, code after it runs on the way out, in reverse registration
// order. Errors from later stages surface through the Next return value, so
// any middleware can wrap the continuation in its own error handling.
type Middleware func(ctx *Context, next Next) error

// Terminal is the stage reached after the full chain delegates onward; the
// router implements it.
type Terminal interface {
	Dispatch(ctx *Context) error
}

// Pipeline wraps each navigation as a request: it opens a container scope,
// runs the registered middleware in onion order around the terminal stage,
// and tears the scope down unconditionally.
type Pipeline struct {
	root     *container.Container
	terminal Terminal
	mws      []Middleware
	logger   *zap.Logger
}

// New creates a Pipeline over the root container and terminal stage.
func New(root *container.Container, terminal Terminal, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{root: root, terminal: terminal, logger: logger}
}

// Use appends a middleware to the chain. Registration order is execution
// order on the way in.
func (p *Pipeline) Use(mw Middleware) {
	p.mws = append(p.mws, mw)
}

// ProcessRequest runs one request through the chain. Exactly one scope is
// created from the root container per invocation and cleared on exit whether
// the chain succeeds, errors or panics.
//
// The pipeline performs no implicit error catching: an error from the
// terminal stage or a later middleware propagates up through every earlier
// middleware's Next call and out of ProcessRequest unless some middleware
// handles it.
func (p *Pipeline) ProcessRequest(rawURL, method string) (*Context, error) {
	ctx := newContext(rawURL, method)

	scope := p.root.CreateScope()
	ctx.Scope = scope
	defer scope.ClearScope()

	var run func(i int) error
	run = func(i int) error {
		if i >= len(p.mws) {
			return p.terminal.Dispatch(ctx)
		}
		return p.mws[i](ctx, func() error { return run(i + 1) })
	}

	return ctx, run(0)
}

// newContext parses the raw URL into the request model. An unparsable URL
// degrades to treating the whole string as the path.
func newContext(rawURL, method string) *Context {
	ctx := &Context{
		ID:     uuid.NewString(),
		RawURL: rawURL,
		Method: method,
		Start:  time.Now(),
	}
	if u, err := url.Parse(rawURL); err == nil {
		ctx.Path = u.Path
		ctx.Query = u.Query()
	} else {
		ctx.Path = strings.SplitN(rawURL, "#", 2)[0]
		ctx.Query = url.Values{}
	}
	return ctx
}
