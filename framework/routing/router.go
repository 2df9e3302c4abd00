package routing

import (
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/pipeline"
	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/view"
)

// homeIdentifier is the controller an empty path resolves to.
const homeIdentifier = "home"

// defaultActionID is the action a route without an action segment invokes
// when neither the controller entry nor the configuration names one.
const defaultActionID = "index"

// Navigator runs a request through the middleware pipeline. The pipeline
// implements it; the indirection keeps the router ignorant of middleware.
type Navigator interface {
	ProcessRequest(rawURL, method string) (*pipeline.Context, error)
}

// NotFound is the result attached to a request whose path matched no route.
type NotFound struct {
	Path   string
	Markup string
}

// Router resolves incoming paths to controller actions and owns navigation
// state. It is the pipeline's terminal stage; controllers reach it only by
// returning Redirect results, never by holding a reference into it.
type Router struct {
	reg    *registry.Registry
	disp   *dispatch.Dispatcher
	nav    Navigator
	hist   History
	views  view.Renderer
	logger *zap.Logger

	home     string
	fallback string // action invoked when an entry names no default
	current  string // path+query of the last resolved navigation
}

// New creates a Router over the given registry and dispatcher. The navigator
// and history transport are wired afterwards, once the pipeline exists.
func New(reg *registry.Registry, disp *dispatch.Dispatcher, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{reg: reg, disp: disp, logger: logger, home: homeIdentifier, fallback: defaultActionID}
}

// SetNavigator wires the pipeline entry point used for navigations.
func (r *Router) SetNavigator(nav Navigator) { r.nav = nav }

// SetHistory wires the history transport.
func (r *Router) SetHistory(h History) { r.hist = h }

// SetRenderer wires the renderer used for the not-found surface.
func (r *Router) SetRenderer(v view.Renderer) { r.views = v }

// SetHome overrides the controller an empty path resolves to.
func (r *Router) SetHome(name string) {
	if name != "" {
		r.home = name
	}
}

// SetDefaultAction overrides the action invoked when a route carries no
// action segment and the controller entry declares no default of its own.
func (r *Router) SetDefaultAction(name string) {
	if name != "" {
		r.fallback = name
	}
}

// defaultAction returns the action a route without an action segment invokes
// on e: the entry's own default when declared, the configured fallback
// otherwise.
func (r *Router) defaultAction(e *registry.ControllerEntry) string {
	if e.Default != "" {
		return e.Default
	}
	return r.fallback
}

// ── Registration ─────────────────────────────────────────────────────────────

// AddRoute records a static route: path → controller, default action implied.
func (r *Router) AddRoute(path, controllerName string) {
	r.reg.AddStaticRoute(path, controllerName)
}

// RegisterController installs a controller entry into the registry.
func (r *Router) RegisterController(e *registry.ControllerEntry) {
	r.reg.RegisterController(e)
}

// ── Navigation ───────────────────────────────────────────────────────────────

// Init subscribes to external history changes and resolves the current
// location, the equivalent of handling the initial page load.
func (r *Router) Init() error {
	if r.hist == nil {
		return errors.New("routing: no history transport wired")
	}
	r.hist.Listen(func(path string) {
		r.current = normalize(path)
		if _, err := r.nav.ProcessRequest(path, "GET"); err != nil {
			r.logger.Error("routing: history change failed",
				zap.String("path", path), zap.Error(err))
		}
	})

	start := r.hist.Current()
	r.current = normalize(start)
	_, err := r.nav.ProcessRequest(start, "GET")
	return err
}

// NavigateTo pushes a history entry and re-resolves, unless the requested
// path+query equals the current one (fragments are ignored), in which case
// it is a no-op. A failed history push still re-resolves the current route
// to keep the view consistent. A history transport that records the entry
// before failing therefore sees the terminal stage run twice for one
// navigation; callers relying on exactly-once dispatch must supply a
// transport that fails atomically.
func (r *Router) NavigateTo(path string) error {
	target := normalize(path)
	if target == r.current {
		return nil
	}

	if r.hist != nil {
		if err := r.hist.Push(path); err != nil {
			r.logger.Warn("routing: history push failed, re-resolving current route",
				zap.String("path", path), zap.Error(err))
			_, rerr := r.nav.ProcessRequest(r.current, "GET")
			return rerr
		}
	}

	r.current = target
	_, err := r.nav.ProcessRequest(path, "GET")
	return err
}

// HandleLink decides whether a clicked link is intercepted as an in-app
// navigation. It returns false for links the native behaviour should keep:
// cross-origin targets and fragment-only changes on the current path.
func (r *Router) HandleLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.IsAbs() || u.Host != "" {
		return false
	}
	target := normalize(href)
	if target == r.current && u.Fragment != "" {
		// same path, fragment only: native anchor scroll
		return false
	}
	if err := r.NavigateTo(href); err != nil {
		r.logger.Error("routing: link navigation failed",
			zap.String("href", href), zap.Error(err))
	}
	return true
}

// normalize reduces a raw URL to the path+query identity used for
// idempotence checks; the fragment never participates.
func normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.SplitN(raw, "#", 2)[0]
	}
	path := u.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if u.RawQuery == "" {
		return path
	}
	return path + "?" + u.Query().Encode()
}

// ── Terminal stage ───────────────────────────────────────────────────────────

// Dispatch implements pipeline.Terminal. Resolution order: declared route,
// static route, {controller}/{action} convention, single-segment convention,
// not-found surface.
func (r *Router) Dispatch(ctx *pipeline.Context) error {
	path := strings.Trim(ctx.Path, "/")
	if path == "" {
		path = r.home
	}
	raw := any(ctx.Input())

	// 1. declared route, exact path
	if e, ok := r.reg.Route(path); ok && verbMatches(e.Verb, ctx.Method) {
		res, err := r.disp.CallAction(ctx.Scope, e.Controller, e.Action, raw)
		var missing *dispatch.ActionNotFoundError
		if errors.As(err, &missing) {
			return r.notFound(ctx, path)
		}
		if err != nil {
			return err
		}
		return r.finish(ctx, res)
	}

	// 2. static route, default action
	if name, ok := r.reg.StaticRoute(path); ok {
		if e, ok := r.reg.ControllerFold(name); ok {
			res, err := r.disp.CallAction(ctx.Scope, e.Name, r.defaultAction(e), raw)
			if err != nil {
				return err
			}
			return r.finish(ctx, res)
		}
		return r.notFound(ctx, path)
	}

	// 3/4. conventional {controller}/{action}, single segment included
	segs := strings.Split(path, "/")
	if e, ok := r.reg.ControllerFold(segs[0]); ok {
		action := r.defaultAction(e)
		input := raw
		if len(segs) > 1 {
			if _, declared := e.Actions[segs[1]]; declared {
				action = segs[1]
			} else {
				// trailing segment is data, not an action: hand it through raw
				input = segs[1]
			}
		}
		res, err := r.disp.CallAction(ctx.Scope, e.Name, action, input)
		if err != nil {
			return err
		}
		return r.finish(ctx, res)
	}

	// 5. nothing matched
	return r.notFound(ctx, path)
}

// finish attaches the result to the request and re-enters navigation for
// redirects. Controllers and the router communicate exclusively through
// these result values.
func (r *Router) finish(ctx *pipeline.Context, res dispatch.Result) error {
	ctx.Result = res
	if rd, ok := res.(dispatch.Redirect); ok {
		target := rd.Path
		if target == "" {
			target = "/" + rd.Controller
			if rd.Action != "" {
				target += "/" + rd.Action
			}
		}
		return r.NavigateTo(target)
	}
	return nil
}

// notFound renders the minimal not-found surface and records it as the
// request's result. An unroutable path is a user-visible 404, not an error.
func (r *Router) notFound(ctx *pipeline.Context, path string) error {
	r.logger.Warn("routing: no route matched", zap.String("path", path))
	markup := "<h1>404 Not Found</h1>"
	if r.views != nil {
		if out, err := r.views.Render("404", map[string]any{"path": path}); err == nil {
			markup = out
		}
	}
	ctx.Result = NotFound{Path: path, Markup: markup}
	return nil
}

func verbMatches(verb, method string) bool {
	return verb == "" || strings.EqualFold(verb, method)
}
