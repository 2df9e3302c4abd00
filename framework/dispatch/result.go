package dispatch

// ── Action results ───────────────────────────────────────────────────────────

// Result is the closed set of shapes an action may return. Anything an
// action hands back that does not normalize into one of these is rejected
// with a ResultShapeError rather than silently coerced.
type Result interface{ isResult() }

// Empty signals that the action produced its output as a side effect
// (typically by rendering a view) and has nothing to return.
type Empty struct{}

func (Empty) isResult() {}

// Redirect asks the router to navigate again. Either Path is set, or
// Controller/Action name the target by reference.
type Redirect struct {
	Path       string
	Controller string
	Action     string
}

func (Redirect) isResult() {}

// JSON wraps data destined for the standard JSON envelope.
type JSON struct{ Data any }

func (JSON) isResult() {}

// Data carries plain data back to the caller unenveloped.
type Data struct{ Value any }

func (Data) isResult() {}

// normalize validates the shape of an action's return value. A nil return is
// an Empty result; a plain data object (map) is accepted as Data.
func normalize(controller, action string, v any) (Result, error) {
	switch out := v.(type) {
	case nil:
		return Empty{}, nil
	case Result:
		return out, nil
	case map[string]any:
		return Data{Value: out}, nil
	default:
		return nil, &ResultShapeError{Controller: controller, Action: action, Value: v}
	}
}
