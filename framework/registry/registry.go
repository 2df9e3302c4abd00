package registry

import (
	"sort"
	"strings"
	"sync"
)

// ── Entries ──────────────────────────────────────────────────────────────────

// RouteEntry maps a declared path to a controller action.
type RouteEntry struct {
	Path       string
	Controller string
	Action     string
	Verb       string // empty matches any method
}

// ParamType classifies a bound action parameter.
type ParamType int

const (
	// RawParam passes the raw input through unchanged.
	RawParam ParamType = iota
	// TextParam coerces the raw input to a string.
	TextParam
	// NumberParam coerces the raw input to a float64.
	NumberParam
	// BoolParam coerces the raw input to a bool.
	BoolParam
	// ModelParam constructs a model, copies matching input keys onto it and
	// runs validation before the action executes.
	ModelParam
)

// ParameterDescriptor describes one positional action parameter.
type ParameterDescriptor struct {
	Index int
	Name  string
	Type  ParamType

	// Model builds a fresh model instance for ModelParam descriptors.
	Model func() any
}

// ActionFunc is a direct, typed reference to one controller action. The
// dispatcher calls it with the resolved controller instance and the bound
// positional arguments.
type ActionFunc func(ctrl any, args []any) (any, error)

// ControllerEntry describes a dispatchable controller: how to obtain an
// instance and which actions it exposes.
type ControllerEntry struct {
	Name string

	// Identity is the container identity tried first when acquiring an
	// instance; empty means skip the container and construct directly.
	Identity string

	// Ctor is the direct-construction fallback, invoked with best-effort
	// dependency resolution when the container has no matching descriptor.
	Ctor   any
	Params []string

	// Actions maps action ids to direct function references.
	Actions map[string]ActionFunc

	// Default names the action used by convention routes that carry no
	// action segment; empty means "index".
	Default string
}

// DefaultAction returns the entry's default action id.
func (e *ControllerEntry) DefaultAction() string {
	if e.Default != "" {
		return e.Default
	}
	return "index"
}

// ActionNames returns the entry's action ids, sorted.
func (e *ControllerEntry) ActionNames() []string {
	out := make([]string, 0, len(e.Actions))
	for name := range e.Actions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry holds the route, controller, action and parameter tables. One
// Registry value is constructed at startup and threaded by reference through
// the pipeline, router and dispatcher; tests build their own isolated one.
type Registry struct {
	mu          sync.RWMutex
	routes      map[string]RouteEntry
	static      map[string]string
	controllers map[string]*ControllerEntry
	params      map[string][]ParameterDescriptor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		routes:      make(map[string]RouteEntry),
		static:      make(map[string]string),
		controllers: make(map[string]*ControllerEntry),
		params:      make(map[string][]ParameterDescriptor),
	}
}

// ── Declared routes ──────────────────────────────────────────────────────────

// AddRoute records a declared route. Paths are stored with the leading slash
// stripped; the last registration for a path wins.
func (r *Registry) AddRoute(e RouteEntry) {
	e.Path = strings.TrimPrefix(e.Path, "/")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[e.Path] = e
}

// Route looks up a declared route by exact path.
func (r *Registry) Route(path string) (RouteEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.routes[strings.TrimPrefix(path, "/")]
	return e, ok
}

// ── Static routes ────────────────────────────────────────────────────────────

// AddStaticRoute records a legacy static route: path → controller name, with
// the controller's default action implied.
func (r *Registry) AddStaticRoute(path, controller string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.static[strings.TrimPrefix(path, "/")] = controller
}

// StaticRoute looks up a static route by exact path.
func (r *Registry) StaticRoute(path string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.static[strings.TrimPrefix(path, "/")]
	return name, ok
}

// ── Controllers & actions ────────────────────────────────────────────────────

// RegisterController installs a controller entry, overwriting any previous
// entry with the same name.
func (r *Registry) RegisterController(e *ControllerEntry) {
	if e.Actions == nil {
		e.Actions = make(map[string]ActionFunc)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[e.Name] = e
}

// RegisterAction attaches an action to an already registered controller.
func (r *Registry) RegisterAction(controller, action string, fn ActionFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.controllers[controller]
	if !ok {
		return false
	}
	e.Actions[action] = fn
	return true
}

// Controller looks up a controller by exact name.
func (r *Registry) Controller(name string) (*ControllerEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.controllers[name]
	return e, ok
}

// ControllerFold looks up a controller case-insensitively.
func (r *Registry) ControllerFold(name string) (*ControllerEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.controllers[name]; ok {
		return e, ok
	}
	for n, e := range r.controllers {
		if strings.EqualFold(n, name) {
			return e, true
		}
	}
	return nil, false
}

// ControllerNames returns all registered controller names, sorted.
func (r *Registry) ControllerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ── Parameter descriptors ────────────────────────────────────────────────────

// SetParameters records the ordered binding descriptors for an action.
// Absence of descriptors means the raw input is passed through unbound.
func (r *Registry) SetParameters(controller, action string, descs ...ParameterDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params[controller+"."+action] = descs
}

// Parameters returns the binding descriptors for an action, if any.
func (r *Registry) Parameters(controller, action string) ([]ParameterDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descs, ok := r.params[controller+"."+action]
	return descs, ok
}
