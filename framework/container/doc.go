// Package container provides the IoC container at the heart of the runtime:
// string-identified service descriptors, three lifetimes, request scopes, and
// a service-provider system for startup wiring.
//
// # Lifetimes
//
//	// Transient: built fresh on every GetService
//	c.AddTransientFactory("AuditTrail", func(c *container.Container) any {
//	    return audit.New()
//	})
//
//	// Scoped: one instance per request scope
//	c.AddScopedFactory("UnitOfWork", func(c *container.Container) any {
//	    return work.New()
//	})
//
//	// Singleton: one instance for the application's lifetime
//	c.AddSingletonFactory("CacheService", func(c *container.Container) any {
//	    return cache.NewMemory()
//	})
//
// Each lifetime also has a constructor variant (AddSingleton et al., taking a
// function whose parameters the container resolves) and an Instance variant
// for pre-built values. Re-registering an identity overwrites the previous
// descriptor and drops any cached instance built from it.
//
// # Resolving
//
//	svc, err := c.GetService("CacheService")       // *ResolutionError if absent
//	svc, ok := c.TryGetService("CacheService")     // no error, just (nil, false)
//	typed, err := container.Resolve[*cache.Memory](c, "CacheService")
//
// # Scopes
//
// CreateScope derives a request-local container view sharing the descriptor
// table and singleton cache with its root; ClearScope discards the scope's
// own instance cache. The pipeline creates one scope per request and clears
// it unconditionally when the request ends.
//
// # Constructor wiring
//
// Constructor parameters with concrete types resolve by the type's simple
// name. Parameters declared as bare any have no usable metadata; when
// EnableHeuristicWiring is on, the declared parameter name is matched against
// registered identities in three strict steps: exact capitalised match,
// conventional "Service" suffix stripped or appended, then substring
// containment. A miss resolves the parameter to its zero value and logs a
// warning; construction never fails on a missing dependency.
//
// # Service providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.AddSingletonFactory("CacheService", func(c *container.Container) any {
//	        return cache.NewMemory()
//	    })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot() // safe to resolve everything after this
package container
