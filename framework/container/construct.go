package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// constructor is a registered implementation function plus the declared names
// of its parameters. Parameter names only matter when a parameter's type
// carries no usable metadata (declared as any) and heuristic wiring is on.
type constructor struct {
	fn     reflect.Value
	params []string
}

func newConstructor(ctor any, params []string) *constructor {
	v := reflect.ValueOf(ctor)
	if !v.IsValid() || v.Kind() != reflect.Func {
		panic(fmt.Sprintf("container: constructor must be a function, got %T", ctor))
	}
	return &constructor{fn: v, params: params}
}

var emptyInterface = reflect.TypeOf((*any)(nil)).Elem()

// Construct invokes fn with container-resolved arguments and returns its
// first result. It applies the same dependency-resolution rules as
// constructor registrations, so callers (the dispatcher's direct-construction
// fallback in particular) get identical wiring behaviour.
func (c *Container) Construct(fn any, paramNames ...string) (any, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("container: construct target must be a function, got %T", fn)
	}
	return c.invoke(&constructor{fn: v, params: paramNames}), nil
}

// invoke resolves every parameter and calls the constructor. Unresolvable
// parameters degrade to the type's zero value with a diagnostic warning; the
// call still happens.
func (c *Container) invoke(ct *constructor) any {
	t := ct.fn.Type()
	args := make([]reflect.Value, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		name := ""
		if i < len(ct.params) {
			name = ct.params[i]
		}
		args[i] = c.argument(t.In(i), name)
	}
	out := ct.fn.Call(args)
	if len(out) == 0 {
		return nil
	}
	return out[0].Interface()
}

// argument resolves one constructor parameter.
//
// With usable type metadata (anything but a bare any), the parameter type's
// simple name is resolved through GetService. Without it, the name-based
// heuristic takes over when enabled. Either way a miss resolves to the zero
// value rather than failing the construction.
func (c *Container) argument(pt reflect.Type, name string) reflect.Value {
	if pt == emptyInterface {
		if c.heuristic && name != "" {
			if v, ok := c.byName(name); ok {
				return argValue(pt, v)
			}
		}
		c.logger.Warn("container: constructor parameter unresolved",
			zap.String("param", name))
		return reflect.Zero(pt)
	}

	if v, ok := c.TryGetService(typeIdentity(pt)); ok {
		return argValue(pt, v)
	}
	c.logger.Warn("container: constructor parameter unresolved",
		zap.String("param", name),
		zap.String("type", pt.String()))
	return reflect.Zero(pt)
}

// byName applies the three matching strategies in strict priority order,
// stopping at the first hit. Identities are scanned in sorted order so a
// match within one strategy is deterministic.
func (c *Container) byName(param string) (any, bool) {
	c.mu.RLock()
	ids := c.identitiesLocked()
	c.mu.RUnlock()
	sort.Strings(ids)

	// 1. exact: capitalised parameter name equals a registered identity
	want := capitalize(param)
	for _, id := range ids {
		if id == want {
			return c.matched(id)
		}
	}

	// 2. conventional "Service" suffix, stripped or appended
	for _, id := range ids {
		if strings.EqualFold(strings.TrimSuffix(id, "Service"), param) ||
			strings.EqualFold(id, param+"Service") {
			return c.matched(id)
		}
	}

	// 3. substring containment, either direction
	lp := strings.ToLower(param)
	for _, id := range ids {
		li := strings.ToLower(id)
		if strings.Contains(li, lp) || strings.Contains(lp, li) {
			return c.matched(id)
		}
	}

	return nil, false
}

func (c *Container) matched(identity string) (any, bool) {
	v, err := c.GetService(identity)
	if err != nil {
		return nil, false
	}
	return v, true
}

// argValue wraps v for the parameter type, falling back to the zero value
// when v is nil or not assignable.
func argValue(pt reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(pt)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(pt) {
		return rv
	}
	return reflect.Zero(pt)
}

// typeIdentity derives the registration identity for a parameter type: the
// simple type name, with pointers dereferenced.
func typeIdentity(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
