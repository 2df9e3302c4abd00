package container

import (
	"sync"

	"go.uber.org/zap"
)

// ── Lifetimes & descriptors ──────────────────────────────────────────────────

// Lifetime controls how long a resolved instance is reused.
type Lifetime int

const (
	// Transient services are built fresh on every GetService call.
	Transient Lifetime = iota
	// Scoped services are built once per Scope and discarded with it.
	Scoped
	// Singleton services are built once and reused for the life of the root.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	}
	return "unknown"
}

// Factory builds a concrete value from the container.
type Factory func(c *Container) any

// descriptor records how to build one service. Exactly one of instance,
// factory or construct is authoritative.
type descriptor struct {
	identity  string
	lifetime  Lifetime
	factory   Factory
	construct *constructor
	instance  any
	hasValue  bool
}

// ── Container ────────────────────────────────────────────────────────────────

// Container is the IoC container. A Container created with New is the root;
// CreateScope derives request-local views that share the descriptor table and
// the singleton cache with the root but own their scoped-instance cache.
//
// Registration happens during startup wiring; resolution is safe from any
// goroutine afterwards.
type Container struct {
	mu *sync.RWMutex

	// identity → descriptor, shared by reference with every derived scope
	descriptors map[string]*descriptor

	// resolved singleton instances, shared across all scopes
	singletons map[string]any

	// resolved scoped instances, exclusive to this scope
	scoped map[string]any

	heuristic bool
	logger    *zap.Logger
}

// New creates an empty root container.
func New() *Container {
	return &Container{
		mu:          &sync.RWMutex{},
		descriptors: make(map[string]*descriptor),
		singletons:  make(map[string]any),
		scoped:      make(map[string]any),
		logger:      zap.NewNop(),
	}
}

// SetLogger installs the logger used for wiring diagnostics.
func (c *Container) SetLogger(l *zap.Logger) {
	if l != nil {
		c.logger = l
	}
}

// EnableHeuristicWiring opts in to name-based constructor-dependency
// resolution (see construct.go). Off by default; intended to be decided once
// at bootstrap, before any scope exists.
func (c *Container) EnableHeuristicWiring(on bool) {
	c.heuristic = on
}

// ── Registration ─────────────────────────────────────────────────────────────

// AddTransient registers a constructor function under identity with the
// Transient lifetime. paramNames are the constructor's declared parameter
// names, consulted by heuristic wiring when parameter types carry no usable
// metadata (declared as any).
//
//	c.AddTransient("AuditTrail", NewAuditTrail, "logger", "clock")
func (c *Container) AddTransient(identity string, ctor any, paramNames ...string) {
	c.register(identity, &descriptor{lifetime: Transient, construct: newConstructor(ctor, paramNames)})
}

// AddTransientFactory registers a factory with the Transient lifetime.
func (c *Container) AddTransientFactory(identity string, f Factory) {
	c.register(identity, &descriptor{lifetime: Transient, factory: f})
}

// AddTransientInstance registers a pre-built value with the Transient
// lifetime. The same value is handed out on every resolution; the variant
// exists for API symmetry with the other lifetimes.
func (c *Container) AddTransientInstance(identity string, v any) {
	c.register(identity, &descriptor{lifetime: Transient, instance: v, hasValue: true})
}

// AddScoped registers a constructor under identity with the Scoped lifetime.
func (c *Container) AddScoped(identity string, ctor any, paramNames ...string) {
	c.register(identity, &descriptor{lifetime: Scoped, construct: newConstructor(ctor, paramNames)})
}

// AddScopedFactory registers a factory with the Scoped lifetime.
func (c *Container) AddScopedFactory(identity string, f Factory) {
	c.register(identity, &descriptor{lifetime: Scoped, factory: f})
}

// AddScopedInstance registers a pre-built value with the Scoped lifetime.
func (c *Container) AddScopedInstance(identity string, v any) {
	c.register(identity, &descriptor{lifetime: Scoped, instance: v, hasValue: true})
}

// AddSingleton registers a constructor under identity with the Singleton
// lifetime.
func (c *Container) AddSingleton(identity string, ctor any, paramNames ...string) {
	c.register(identity, &descriptor{lifetime: Singleton, construct: newConstructor(ctor, paramNames)})
}

// AddSingletonFactory registers a factory with the Singleton lifetime.
func (c *Container) AddSingletonFactory(identity string, f Factory) {
	c.register(identity, &descriptor{lifetime: Singleton, factory: f})
}

// AddSingletonInstance registers a pre-built value as a singleton.
func (c *Container) AddSingletonInstance(identity string, v any) {
	c.register(identity, &descriptor{lifetime: Singleton, instance: v, hasValue: true})
}

// register installs a descriptor, overwriting any previous registration for
// the identity. Cached instances built from the old descriptor are dropped so
// the next resolution rebuilds with the new one.
func (c *Container) register(identity string, d *descriptor) {
	d.identity = identity
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, rebound := c.descriptors[identity]; rebound {
		delete(c.singletons, identity)
		delete(c.scoped, identity)
	}
	c.descriptors[identity] = d
}

// Registered returns true if identity has a descriptor.
func (c *Container) Registered(identity string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.descriptors[identity]
	return ok
}

// Identities returns all registered identities (for diagnostics).
func (c *Container) Identities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identitiesLocked()
}

func (c *Container) identitiesLocked() []string {
	out := make([]string, 0, len(c.descriptors))
	for k := range c.descriptors {
		out = append(out, k)
	}
	return out
}

// ── Resolution ───────────────────────────────────────────────────────────────

// GetService resolves identity under its registered lifetime. It returns a
// ResolutionError when no descriptor exists for identity.
func (c *Container) GetService(identity string) (any, error) {
	c.mu.RLock()
	d, ok := c.descriptors[identity]
	c.mu.RUnlock()
	if !ok {
		return nil, &ResolutionError{Identity: identity}
	}

	switch d.lifetime {
	case Singleton:
		return c.memoized(c.singletons, d), nil
	case Scoped:
		return c.memoized(c.scoped, d), nil
	default:
		return c.build(d), nil
	}
}

// TryGetService resolves identity like GetService but swallows the
// ResolutionError, returning (nil, false) for unregistered identities.
func (c *Container) TryGetService(identity string) (any, bool) {
	v, err := c.GetService(identity)
	if err != nil {
		return nil, false
	}
	return v, true
}

// memoized returns the cached instance for d, building and caching it on
// first use. The double check under the write lock keeps concurrent callers
// from racing past each other; a build may still run twice under contention,
// with the first stored instance winning.
func (c *Container) memoized(cache map[string]any, d *descriptor) any {
	c.mu.RLock()
	v, ok := cache[d.identity]
	c.mu.RUnlock()
	if ok {
		return v
	}

	built := c.build(d)

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := cache[d.identity]; ok {
		return v
	}
	cache[d.identity] = built
	return built
}

// build produces a fresh instance from whichever source the descriptor holds.
func (c *Container) build(d *descriptor) any {
	switch {
	case d.hasValue:
		return d.instance
	case d.factory != nil:
		return d.factory(c)
	case d.construct != nil:
		return c.invoke(d.construct)
	}
	return nil
}

// ── Scopes ───────────────────────────────────────────────────────────────────

// CreateScope derives a request-local view of the container: same descriptor
// table, same singleton cache, fresh scoped cache.
func (c *Container) CreateScope() *Container {
	return &Container{
		mu:          c.mu,
		descriptors: c.descriptors,
		singletons:  c.singletons,
		scoped:      make(map[string]any),
		heuristic:   c.heuristic,
		logger:      c.logger,
	}
}

// ClearScope empties this scope's instance cache. Descriptors and singletons
// are untouched; a later scoped resolution builds a new instance.
func (c *Container) ClearScope() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scoped = make(map[string]any)
}

// ── Generics helpers ─────────────────────────────────────────────────────────

// Resolve resolves identity and type-asserts the result.
func Resolve[T any](c *Container, identity string) (T, error) {
	var zero T
	v, err := c.GetService(identity)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{Identity: identity}
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap wiring, panicking on failure.
func MustResolve[T any](c *Container, identity string) T {
	v, err := Resolve[T](c, identity)
	if err != nil {
		panic(err.Error())
	}
	return v
}
