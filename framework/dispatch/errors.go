package dispatch

import (
	"fmt"
	"strconv"
	"strings"
)

// ControllerNotFoundError is returned when no controller matches the
// requested name, exactly or case-insensitively.
type ControllerNotFoundError struct {
	Name  string
	Known []string
}

func (e *ControllerNotFoundError) Error() string {
	return "dispatch: unknown controller " + strconv.Quote(e.Name) +
		" (known: " + strings.Join(e.Known, ", ") + ")"
}

// ActionNotFoundError is returned when a resolved controller has no action
// registered under the requested id.
type ActionNotFoundError struct {
	Controller string
	Action     string
	Actions    []string
}

func (e *ActionNotFoundError) Error() string {
	return "dispatch: controller " + strconv.Quote(e.Controller) +
		" has no action " + strconv.Quote(e.Action) +
		" (actions: " + strings.Join(e.Actions, ", ") + ")"
}

// ResultShapeError is returned when an action's return value is not one of
// the recognized result shapes.
type ResultShapeError struct {
	Controller string
	Action     string
	Value      any
}

func (e *ResultShapeError) Error() string {
	return fmt.Sprintf("dispatch: action %s.%s returned unsupported result type %T",
		e.Controller, e.Action, e.Value)
}
