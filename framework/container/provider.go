package container

// ── ServiceProvider ──────────────────────────────────────────────────────────

// ServiceProvider is the startup wiring surface: providers populate the
// container (and, through it, whatever registries they resolve) before the
// first request is processed.
//
// Register must only add descriptors. Boot runs after every provider has
// registered, so resolving other services is safe there.
type ServiceProvider interface {
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container)

	// Provides returns the identities this provider registers; consulted only
	// for deferred providers. Nil means the provider is always eager.
	Provides() []string

	// IsDeferred reports whether registration should wait until one of the
	// Provides identities is first resolved.
	IsDeferred() bool
}

// BaseProvider is an embeddable no-op implementation of the optional
// ServiceProvider methods.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ─────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including lazy loading of deferred providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method, unless the provider
// is deferred, in which case a lazy placeholder is installed for each
// identity it provides.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.deferProvider(provider)
		return
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	if r.booted {
		provider.Boot(r.app)
	}
}

// deferProvider installs a transient placeholder per provided identity. The
// first resolution runs the real Register (overwriting the placeholder) and
// resolves again through the fresh descriptor.
func (r *ProviderRegistry) deferProvider(provider ServiceProvider) {
	loaded := false
	for _, identity := range provider.Provides() {
		id := identity
		r.app.AddTransientFactory(id, func(c *Container) any {
			if !loaded {
				loaded = true
				provider.Register(c)
				if r.booted {
					provider.Boot(c)
				}
			}
			v, _ := c.GetService(id)
			return v
		})
	}
}

// Boot calls Boot on all eager providers. Must run after every provider has
// been registered.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.app)
	}
}

// Booted returns true once Boot has run.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
