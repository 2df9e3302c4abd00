package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyage-web/voyage/framework/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load("testdata/nonexistent.env")

	assert.Equal(t, "Voyage", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Env)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "home", cfg.Nav.HomeController)
	assert.Equal(t, "index", cfg.Nav.DefaultAction)
	assert.False(t, cfg.Nav.HeuristicWiring, "heuristic wiring defaults off")
	assert.Equal(t, "./views", cfg.View.Dir)
	assert.Equal(t, ".html", cfg.View.Ext)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_NAME", "Shipster")
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_DEBUG", "false")
	t.Setenv("NAV_HOME_CONTROLLER", "dashboard")
	t.Setenv("NAV_HEURISTIC_WIRING", "true")

	cfg := config.Load("testdata/nonexistent.env")

	assert.Equal(t, "Shipster", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.False(t, cfg.App.Debug)
	assert.Equal(t, "dashboard", cfg.Nav.HomeController)
	assert.True(t, cfg.Nav.HeuristicWiring)
}

func TestGetHelpers(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	t.Setenv("SOME_BOOL", "true")
	t.Setenv("SOME_BAD_INT", "forty-two")

	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))
	assert.Equal(t, 7, config.GetInt("SOME_MISSING_INT", 7))
	assert.Equal(t, 7, config.GetInt("SOME_BAD_INT", 7))
	assert.True(t, config.GetBool("SOME_BOOL", false))
	assert.Equal(t, "fallback", config.Get("SOME_MISSING", "fallback"))
}
