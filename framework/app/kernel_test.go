package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-web/voyage/framework/app"
	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/registry"
)

type pingController struct{ dispatch.Controller }

func newTestApp(t *testing.T) *app.Application {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_DEBUG", "false")

	a := app.New()
	a.Boot()

	a.Router().RegisterController(&registry.ControllerEntry{
		Name: "ping",
		Ctor: func() *pingController { return &pingController{} },
		Actions: map[string]registry.ActionFunc{
			"index": func(ctrl any, args []any) (any, error) {
				return dispatch.JSON{Data: "pong"}, nil
			},
			"away": func(ctrl any, args []any) (any, error) {
				return dispatch.Redirect{Path: "/ping"}, nil
			},
		},
	})
	return a
}

func get(t *testing.T, a *app.Application, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)
	return rr
}

func TestKernel_CoreServicesResolve(t *testing.T) {
	a := newTestApp(t)

	assert.NotNil(t, a.Config())
	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Registry())
	assert.NotNil(t, a.Router())
	assert.NotNil(t, a.Dispatcher())
	assert.NotNil(t, a.Pipeline())
	assert.NotNil(t, a.History())
	assert.NotNil(t, a.Views())

	assert.True(t, a.IsTesting())
	assert.False(t, a.IsDebug())
}

func TestKernel_DispatchOverHTTP(t *testing.T) {
	a := newTestApp(t)

	rr := get(t, a, "/ping")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "pong", body["data"])
}

func TestKernel_NotFoundOverHTTP(t *testing.T) {
	a := newTestApp(t)

	rr := get(t, a, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "404")
}

func TestKernel_RedirectOverHTTP(t *testing.T) {
	a := newTestApp(t)

	rr := get(t, a, "/ping/away")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/ping", rr.Header().Get("Location"))
}

func TestKernel_DefaultActionFromEnvironment(t *testing.T) {
	t.Setenv("NAV_DEFAULT_ACTION", "latest")
	a := newTestApp(t)

	a.Router().RegisterController(&registry.ControllerEntry{
		Name: "feed",
		Ctor: func() *pingController { return &pingController{} },
		Actions: map[string]registry.ActionFunc{
			"index": func(ctrl any, args []any) (any, error) {
				return dispatch.JSON{Data: "index"}, nil
			},
			"latest": func(ctrl any, args []any) (any, error) {
				return dispatch.JSON{Data: "latest"}, nil
			},
		},
	})

	rr := get(t, a, "/feed")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "latest", body["data"], "the configured default action served the bare path")
}

func TestKernel_StartResolvesInitialLocation(t *testing.T) {
	a := newTestApp(t)

	dispatched := false
	a.Router().RegisterController(&registry.ControllerEntry{
		Name: "home",
		Ctor: func() *pingController { return &pingController{} },
		Actions: map[string]registry.ActionFunc{
			"index": func(ctrl any, args []any) (any, error) {
				dispatched = true
				return nil, nil
			},
		},
	})

	require.NoError(t, a.Start())
	assert.True(t, dispatched, "startup resolves the history's current location")
}
