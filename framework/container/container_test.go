package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-web/voyage/framework/container"
)

type widget struct{ n int }

func countingFactory() (container.Factory, *int) {
	calls := 0
	return func(c *container.Container) any {
		calls++
		return &widget{n: calls}
	}, &calls
}

// ── Lifetimes ────────────────────────────────────────────────────────────────

func TestSingleton_SameInstanceEverywhere(t *testing.T) {
	c := container.New()
	f, calls := countingFactory()
	c.AddSingletonFactory("Widget", f)

	a, err := c.GetService("Widget")
	require.NoError(t, err)
	b, err := c.GetService("Widget")
	require.NoError(t, err)
	assert.Same(t, a, b)

	scope := c.CreateScope()
	s, err := scope.GetService("Widget")
	require.NoError(t, err)
	assert.Same(t, a, s, "singletons are shared with derived scopes")
	assert.Equal(t, 1, *calls)
}

func TestScoped_SameWithinScope_DifferentAcrossScopes(t *testing.T) {
	c := container.New()
	f, _ := countingFactory()
	c.AddScopedFactory("Widget", f)

	s1 := c.CreateScope()
	s2 := c.CreateScope()

	a1, err := s1.GetService("Widget")
	require.NoError(t, err)
	a2, err := s1.GetService("Widget")
	require.NoError(t, err)
	assert.Same(t, a1, a2)

	b, err := s2.GetService("Widget")
	require.NoError(t, err)
	assert.NotSame(t, a1, b, "a fresh scope recomputes scoped services")
}

func TestTransient_AlwaysFresh(t *testing.T) {
	c := container.New()
	f, calls := countingFactory()
	c.AddTransientFactory("Widget", f)

	a, err := c.GetService("Widget")
	require.NoError(t, err)
	b, err := c.GetService("Widget")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, *calls)
}

func TestClearScope_DropsOnlyScopedCache(t *testing.T) {
	c := container.New()
	sf, _ := countingFactory()
	gf, _ := countingFactory()
	c.AddScopedFactory("Scoped", sf)
	c.AddSingletonFactory("Single", gf)

	scope := c.CreateScope()
	before, err := scope.GetService("Scoped")
	require.NoError(t, err)
	single, err := scope.GetService("Single")
	require.NoError(t, err)

	scope.ClearScope()

	after, err := scope.GetService("Scoped")
	require.NoError(t, err)
	assert.NotSame(t, before, after, "scoped cache was cleared")

	again, err := scope.GetService("Single")
	require.NoError(t, err)
	assert.Same(t, single, again, "singleton cache survives ClearScope")
}

// ── Resolution errors ────────────────────────────────────────────────────────

func TestGetService_Unregistered(t *testing.T) {
	c := container.New()

	_, err := c.GetService("Ghost")
	require.Error(t, err)

	var resErr *container.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "Ghost", resErr.Identity)

	v, ok := c.TryGetService("Ghost")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestReregistration_OverwritesAndDropsCache(t *testing.T) {
	c := container.New()
	c.AddSingletonInstance("Widget", &widget{n: 1})

	first, err := c.GetService("Widget")
	require.NoError(t, err)
	assert.Equal(t, 1, first.(*widget).n)

	// No duplicate-detection error: the later descriptor simply wins.
	c.AddSingletonInstance("Widget", &widget{n: 2})
	second, err := c.GetService("Widget")
	require.NoError(t, err)
	assert.Equal(t, 2, second.(*widget).n)
}

func TestInstanceVariants_HandOutTheRegisteredValue(t *testing.T) {
	c := container.New()
	w := &widget{n: 7}
	c.AddTransientInstance("T", w)
	c.AddScopedInstance("S", w)
	c.AddSingletonInstance("G", w)

	for _, id := range []string{"T", "S", "G"} {
		got, err := c.GetService(id)
		require.NoError(t, err)
		assert.Same(t, w, got)
	}
}

// ── Generic helpers ──────────────────────────────────────────────────────────

func TestResolve_TypedAndMismatched(t *testing.T) {
	c := container.New()
	c.AddSingletonInstance("Widget", &widget{n: 3})

	w, err := container.Resolve[*widget](c, "Widget")
	require.NoError(t, err)
	assert.Equal(t, 3, w.n)

	_, err = container.Resolve[string](c, "Widget")
	var resErr *container.ResolutionError
	assert.True(t, errors.As(err, &resErr))
}

func TestMustResolve_PanicsOnMissing(t *testing.T) {
	c := container.New()
	assert.Panics(t, func() {
		container.MustResolve[*widget](c, "Ghost")
	})
}
