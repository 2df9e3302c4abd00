package app

import (
	"go.uber.org/zap"

	"github.com/voyage-web/voyage/framework/config"
	"github.com/voyage-web/voyage/framework/container"
	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/pipeline"
	"github.com/voyage-web/voyage/framework/providers"
	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/routing"
	"github.com/voyage-web/voyage/framework/view"
)

// Application is the top-level kernel. It embeds the IoC container and the
// provider registry so wiring code can call app.AddSingletonFactory(),
// app.Register() and friends directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates and wires the application. Core providers register in a fixed
// order: configuration, logging, views, then the dispatch runtime.
func New(envFiles ...string) *Application {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: reg,
	}

	reg.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	reg.Register(&providers.LoggingServiceProvider{})
	reg.Register(&providers.ViewServiceProvider{})
	reg.Register(&providers.RoutingServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Start boots the application (if needed) and resolves the initial location,
// the equivalent of the first page load.
func (a *Application) Start() error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	return a.Router().Init()
}

// ── Accessors ────────────────────────────────────────────────────────────────

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Registry resolves the route/controller registry.
func (a *Application) Registry() *registry.Registry {
	return container.MustResolve[*registry.Registry](a.Container, "registry")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Dispatcher resolves *dispatch.Dispatcher from the container.
func (a *Application) Dispatcher() *dispatch.Dispatcher {
	return container.MustResolve[*dispatch.Dispatcher](a.Container, "dispatcher")
}

// Pipeline resolves *pipeline.Pipeline from the container.
func (a *Application) Pipeline() *pipeline.Pipeline {
	return container.MustResolve[*pipeline.Pipeline](a.Container, "pipeline")
}

// History resolves the navigation history transport.
func (a *Application) History() routing.History {
	return container.MustResolve[routing.History](a.Container, "history")
}

// Views resolves the template renderer.
func (a *Application) Views() view.Renderer {
	return container.MustResolve[*view.TemplateRenderer](a.Container, "view")
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
