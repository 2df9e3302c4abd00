package providers

import (
	"go.uber.org/zap"

	"github.com/voyage-web/voyage/framework/config"
	"github.com/voyage-web/voyage/framework/container"
	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/pipeline"
	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/routing"
	"github.com/voyage-web/voyage/framework/view"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.AddSingletonFactory("config", func(c *container.Container) any {
		return config.Load(envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger as "logger": a zap
// development logger when APP_DEBUG is set, a production logger otherwise.
// Boot also points the container's own wiring diagnostics at it.
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.AddSingletonFactory("logger", func(c *container.Container) any {
		cfg := container.MustResolve[*config.Config](c, "config")
		var l *zap.Logger
		var err error
		if cfg.App.Debug {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			return zap.NewNop()
		}
		return l
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) {
	app.SetLogger(container.MustResolve[*zap.Logger](app, "logger"))
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider binds the template renderer as "view".
type ViewServiceProvider struct {
	container.BaseProvider
}

func (p *ViewServiceProvider) Register(app *container.Container) {
	app.AddSingletonFactory("view", func(c *container.Container) any {
		cfg := container.MustResolve[*config.Config](c, "config")
		return view.NewTemplateRenderer(cfg.View.Dir, cfg.View.Ext)
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the whole dispatch runtime:
//
//   - "registry"   → *registry.Registry
//   - "dispatcher" → *dispatch.Dispatcher
//   - "router"     → *routing.Router
//   - "history"    → routing.History (in-memory by default)
//   - "pipeline"   → *pipeline.Pipeline
//
// Boot closes the router/pipeline loop, applies the navigation configuration
// and installs the default middleware (recovery, then request logging).
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.AddSingletonFactory("registry", func(c *container.Container) any {
		return registry.New()
	})

	app.AddSingletonFactory("dispatcher", func(c *container.Container) any {
		return dispatch.New(
			container.MustResolve[*registry.Registry](c, "registry"),
			c,
			container.MustResolve[*zap.Logger](c, "logger"),
		)
	})

	app.AddSingletonFactory("router", func(c *container.Container) any {
		return routing.New(
			container.MustResolve[*registry.Registry](c, "registry"),
			container.MustResolve[*dispatch.Dispatcher](c, "dispatcher"),
			container.MustResolve[*zap.Logger](c, "logger"),
		)
	})

	app.AddSingletonFactory("history", func(c *container.Container) any {
		return routing.History(routing.NewMemoryHistory("/"))
	})

	app.AddSingletonFactory("pipeline", func(c *container.Container) any {
		return pipeline.New(
			c,
			container.MustResolve[*routing.Router](c, "router"),
			container.MustResolve[*zap.Logger](c, "logger"),
		)
	})
}

func (p *RoutingServiceProvider) Boot(app *container.Container) {
	cfg := container.MustResolve[*config.Config](app, "config")
	logger := container.MustResolve[*zap.Logger](app, "logger")
	router := container.MustResolve[*routing.Router](app, "router")
	pipe := container.MustResolve[*pipeline.Pipeline](app, "pipeline")

	app.EnableHeuristicWiring(cfg.Nav.HeuristicWiring)

	router.SetNavigator(pipe)
	router.SetHistory(container.MustResolve[routing.History](app, "history"))
	router.SetRenderer(container.MustResolve[*view.TemplateRenderer](app, "view"))
	router.SetHome(cfg.Nav.HomeController)
	router.SetDefaultAction(cfg.Nav.DefaultAction)

	pipe.Use(pipeline.Recoverer(logger))
	pipe.Use(pipeline.Logger(logger))
}
