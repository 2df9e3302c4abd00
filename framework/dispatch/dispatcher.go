package dispatch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/voyage-web/voyage/framework/container"
	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/validation"
)

// Dispatcher resolves controllers, binds action parameters and invokes
// actions, validating the shape of whatever comes back.
type Dispatcher struct {
	reg    *registry.Registry
	root   *container.Container
	logger *zap.Logger
}

// New creates a Dispatcher over the given registry and root container.
func New(reg *registry.Registry, root *container.Container, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{reg: reg, root: root, logger: logger}
}

// RegisterController installs a controller entry into the registry.
func (d *Dispatcher) RegisterController(e *registry.ControllerEntry) {
	d.reg.RegisterController(e)
}

// CallAction resolves the named controller and action, binds raw input into
// the action's declared parameters, invokes it and validates the result
// shape. scope is the request's container scope; the root container is used
// when scope is nil.
//
// Failed model validation is not an error here: it lands in the controller's
// ModelState and the action still runs, deciding for itself what to do.
func (d *Dispatcher) CallAction(scope *container.Container, controllerName, actionName string, raw any) (Result, error) {
	entry, ok := d.reg.Controller(controllerName)
	if !ok {
		entry, ok = d.reg.ControllerFold(controllerName)
	}
	if !ok {
		return nil, &ControllerNotFoundError{Name: controllerName, Known: d.reg.ControllerNames()}
	}

	c := scope
	if c == nil {
		c = d.root
	}
	instance, err := d.instantiate(c, entry)
	if err != nil {
		return nil, err
	}

	fn, ok := entry.Actions[actionName]
	if !ok {
		return nil, &ActionNotFoundError{
			Controller: entry.Name,
			Action:     actionName,
			Actions:    entry.ActionNames(),
		}
	}

	args, valState := d.arguments(entry.Name, actionName, raw)

	if holder, ok := instance.(ModelStateHolder); ok {
		st := holder.State()
		st.reset()
		st.Merge(valState)
	}

	out, err := fn(instance, args)
	if err != nil {
		return nil, err
	}
	return normalize(entry.Name, actionName, out)
}

// instantiate acquires a controller instance: through the container when the
// entry names a registered identity, by direct construction with best-effort
// dependency resolution otherwise. Controllers need not be pre-registered in
// the container to be dispatchable.
func (d *Dispatcher) instantiate(c *container.Container, e *registry.ControllerEntry) (any, error) {
	if e.Identity != "" {
		if v, ok := c.TryGetService(e.Identity); ok {
			return v, nil
		}
	}
	if e.Ctor == nil {
		return nil, fmt.Errorf("dispatch: controller %q has no constructor and no container registration", e.Name)
	}
	v, err := c.Construct(e.Ctor, e.Params...)
	if err != nil {
		return nil, fmt.Errorf("dispatch: constructing controller %q: %w", e.Name, err)
	}
	return v, nil
}

// arguments binds raw input per the registered descriptors. With no
// descriptors on file the raw input passes through as the single positional
// argument.
func (d *Dispatcher) arguments(controller, action string, raw any) ([]any, validation.Result) {
	descs, ok := d.reg.Parameters(controller, action)
	if !ok {
		return []any{raw}, validation.Result{IsValid: true}
	}
	return bind(descs, raw)
}
