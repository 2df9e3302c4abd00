package routing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-web/voyage/framework/container"
	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/pipeline"
	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/routing"
)

// ── Test stack ───────────────────────────────────────────────────────────────

type stack struct {
	reg    *registry.Registry
	root   *container.Container
	router *routing.Router
	pipe   *pipeline.Pipeline
	hist   *routing.MemoryHistory
	calls  []string // "controller.action:input"
}

func newStack(t *testing.T) *stack {
	t.Helper()
	s := &stack{reg: registry.New(), root: container.New()}
	disp := dispatch.New(s.reg, s.root, nil)
	s.router = routing.New(s.reg, disp, nil)
	s.pipe = pipeline.New(s.root, s.router, nil)
	s.router.SetNavigator(s.pipe)
	s.hist = routing.NewMemoryHistory("/")
	s.router.SetHistory(s.hist)
	return s
}

// controller registers a plain controller whose actions record their
// invocation and return Empty.
func (s *stack) controller(name string, actions ...string) {
	e := &registry.ControllerEntry{
		Name:    name,
		Ctor:    func() *noopController { return &noopController{} },
		Actions: map[string]registry.ActionFunc{},
	}
	for _, a := range actions {
		action := a
		e.Actions[action] = func(ctrl any, args []any) (any, error) {
			input := ""
			if v, ok := args[0].(string); ok {
				input = v
			}
			s.calls = append(s.calls, name+"."+action+":"+input)
			return nil, nil
		}
	}
	s.reg.RegisterController(e)
}

type noopController struct{ dispatch.Controller }

func (s *stack) resolve(t *testing.T, path string) *pipeline.Context {
	t.Helper()
	ctx, err := s.pipe.ProcessRequest(path, "GET")
	require.NoError(t, err)
	return ctx
}

// ── Resolution order ─────────────────────────────────────────────────────────

func TestDispatch_DeclaredRouteBeatsConvention(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")
	s.controller("promo", "banner")
	s.reg.AddRoute(registry.RouteEntry{Path: "products/featured", Controller: "promo", Action: "banner"})

	s.resolve(t, "/products/featured")
	assert.Equal(t, []string{"promo.banner:"}, s.calls,
		"the declared route wins over {controller}/{action} convention")
}

func TestDispatch_DeclaredRouteWithMissingAction_IsNotFound(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")
	s.reg.AddRoute(registry.RouteEntry{Path: "products/featured", Controller: "products", Action: "featured"})

	ctx := s.resolve(t, "/products/featured")
	nf, ok := ctx.Result.(routing.NotFound)
	require.True(t, ok, "a declared route whose action is missing renders 404")
	assert.Equal(t, "products/featured", nf.Path)
	assert.Empty(t, s.calls)
}

func TestDispatch_StaticRouteUsesDefaultAction(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")
	s.router.AddRoute("/shop", "products")

	s.resolve(t, "/shop")
	assert.Equal(t, []string{"products.index:"}, s.calls)
}

func TestDispatch_ConventionInvokesNamedAction(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index", "list")

	s.resolve(t, "/products/list")
	assert.Equal(t, []string{"products.list:"}, s.calls)
}

func TestDispatch_ConventionFallsBackToDefaultAction(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")

	// "42" is not an action: the default action runs with it as raw input.
	s.resolve(t, "/products/42")
	assert.Equal(t, []string{"products.index:42"}, s.calls)
}

func TestDispatch_ConfiguredDefaultActionUsedWhenEntryHasNone(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index", "list")
	s.router.SetDefaultAction("list")

	s.resolve(t, "/products")
	assert.Equal(t, []string{"products.list:"}, s.calls,
		"an entry without a declared default follows the configured action")
}

func TestDispatch_EntryDefaultBeatsConfiguredDefault(t *testing.T) {
	s := newStack(t)
	s.controller("promo", "banner", "list")
	e, ok := s.reg.Controller("promo")
	require.True(t, ok)
	e.Default = "banner"
	s.router.SetDefaultAction("list")

	s.resolve(t, "/promo")
	assert.Equal(t, []string{"promo.banner:"}, s.calls)
}

func TestDispatch_ControllerLookupIsCaseInsensitive(t *testing.T) {
	s := newStack(t)
	s.controller("Products", "index")

	s.resolve(t, "/products")
	assert.Equal(t, []string{"Products.index:"}, s.calls)
}

func TestDispatch_EmptyPathResolvesHome(t *testing.T) {
	s := newStack(t)
	s.controller("home", "index")

	s.resolve(t, "/")
	assert.Equal(t, []string{"home.index:"}, s.calls)
}

func TestDispatch_UnmatchedPathRendersNotFound(t *testing.T) {
	s := newStack(t)

	ctx := s.resolve(t, "/nowhere/at/all")
	nf, ok := ctx.Result.(routing.NotFound)
	require.True(t, ok)
	assert.Equal(t, "nowhere/at/all", nf.Path)
	assert.Contains(t, nf.Markup, "404")
}

func TestDispatch_DeclaredRouteVerbMismatchFallsThrough(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")
	s.reg.AddRoute(registry.RouteEntry{Path: "products", Controller: "products", Action: "index", Verb: "POST"})

	ctx, err := s.pipe.ProcessRequest("/products", "GET")
	require.NoError(t, err)
	// The GET falls through the POST-only declared route into convention.
	assert.Equal(t, []string{"products.index:"}, s.calls)
	assert.Equal(t, dispatch.Empty{}, ctx.Result)
}

func TestDispatch_LastRegistrationWinsPerPath(t *testing.T) {
	s := newStack(t)
	s.controller("old", "index")
	s.controller("new", "index")
	s.reg.AddRoute(registry.RouteEntry{Path: "landing", Controller: "old", Action: "index"})
	s.reg.AddRoute(registry.RouteEntry{Path: "landing", Controller: "new", Action: "index"})

	s.resolve(t, "/landing")
	assert.Equal(t, []string{"new.index:"}, s.calls)
}

// ── Navigation ───────────────────────────────────────────────────────────────

func TestNavigateTo_DispatchesAndRecordsHistory(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")

	require.NoError(t, s.router.NavigateTo("/products"))
	assert.Equal(t, []string{"products.index:"}, s.calls)
	assert.Equal(t, "/products", s.hist.Current())
}

func TestNavigateTo_SamePathQueryIsNoOp(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")

	require.NoError(t, s.router.NavigateTo("/products?page=2"))
	require.NoError(t, s.router.NavigateTo("/products?page=2"))
	assert.Len(t, s.calls, 1, "re-navigating to the current path+query is a no-op")
}

func TestNavigateTo_FragmentDifferenceIsIgnored(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")

	require.NoError(t, s.router.NavigateTo("/products"))
	require.NoError(t, s.router.NavigateTo("/products#details"))
	assert.Len(t, s.calls, 1, "a fragment-only change does not re-dispatch")
}

func TestNavigateTo_QueryChangeRedispatches(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")

	require.NoError(t, s.router.NavigateTo("/products?page=1"))
	require.NoError(t, s.router.NavigateTo("/products?page=2"))
	assert.Len(t, s.calls, 2)
}

// failingHistory records the entry before reporting failure, mimicking a
// transport that fails non-atomically.
type failingHistory struct {
	*routing.MemoryHistory
	fail bool
}

func (h *failingHistory) Push(path string) error {
	if h.fail {
		_ = h.MemoryHistory.Push(path)
		return errors.New("history: push rejected")
	}
	return h.MemoryHistory.Push(path)
}

func TestNavigateTo_FailedPushReResolvesCurrentRoute(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")
	s.controller("cart", "index")

	hist := &failingHistory{MemoryHistory: routing.NewMemoryHistory("/")}
	s.router.SetHistory(hist)

	require.NoError(t, s.router.NavigateTo("/products"))
	require.Equal(t, []string{"products.index:"}, s.calls)

	hist.fail = true
	require.NoError(t, s.router.NavigateTo("/cart"))

	// The fallback re-resolves the *current* route, not the requested one.
	// A transport that records the entry before failing therefore produces a
	// second dispatch for a navigation the user only triggered once.
	assert.Equal(t, []string{"products.index:", "products.index:"}, s.calls)
}

func TestHistoryBack_ReentersResolution(t *testing.T) {
	s := newStack(t)
	s.controller("home", "index")
	s.controller("products", "index")

	require.NoError(t, s.router.Init())
	require.Equal(t, []string{"home.index:"}, s.calls)

	require.NoError(t, s.router.NavigateTo("/products"))
	require.Equal(t, []string{"home.index:", "products.index:"}, s.calls)

	s.hist.Back()
	assert.Equal(t, []string{"home.index:", "products.index:", "home.index:"}, s.calls,
		"back/forward re-enters the same resolution algorithm")
}

// ── Link interception ────────────────────────────────────────────────────────

func TestHandleLink(t *testing.T) {
	s := newStack(t)
	s.controller("products", "index")

	assert.False(t, s.router.HandleLink("https://elsewhere.example/page"),
		"cross-origin links stay native")

	require.NoError(t, s.router.NavigateTo("/products"))
	assert.False(t, s.router.HandleLink("/products#reviews"),
		"fragment-only change on the current path stays native")

	assert.True(t, s.router.HandleLink("/products?page=2"))
	assert.Len(t, s.calls, 2)
}

// ── Redirect results ─────────────────────────────────────────────────────────

func TestRedirectResult_ReentersNavigation(t *testing.T) {
	s := newStack(t)
	s.controller("login", "index")

	s.reg.RegisterController(&registry.ControllerEntry{
		Name: "admin",
		Ctor: func() *noopController { return &noopController{} },
		Actions: map[string]registry.ActionFunc{
			"index": func(ctrl any, args []any) (any, error) {
				return dispatch.Redirect{Path: "/login"}, nil
			},
		},
	})

	require.NoError(t, s.router.NavigateTo("/admin"))
	assert.Equal(t, []string{"login.index:"}, s.calls)
	assert.Equal(t, "/login", s.hist.Current(), "the redirect navigated through the public entry point")
}
