package dispatch

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/validation"
)

// bind materializes the positional arguments for an action from its
// parameter descriptors and the raw request input. It also accumulates the
// validity record produced while binding model parameters.
func bind(descs []registry.ParameterDescriptor, raw any) ([]any, validation.Result) {
	ordered := make([]registry.ParameterDescriptor, len(descs))
	copy(ordered, descs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	state := validation.Result{IsValid: true}
	args := make([]any, len(ordered))
	for i, d := range ordered {
		switch d.Type {
		case registry.TextParam:
			args[i] = coerceString(primitive(d, raw))
		case registry.NumberParam:
			args[i] = coerceNumber(primitive(d, raw))
		case registry.BoolParam:
			args[i] = coerceBool(primitive(d, raw))
		case registry.ModelParam:
			model := d.Model()
			copyInput(model, raw)
			res := validation.Check(model)
			if !res.IsValid {
				state.IsValid = false
			}
			state.Errors = append(state.Errors, res.Errors...)
			args[i] = model
		default:
			args[i] = raw
		}
	}
	return args, state
}

// ── Primitive coercion ───────────────────────────────────────────────────────

// primitive picks the value a primitive descriptor coerces from: the entry
// under the descriptor's name when the raw input is a map, the raw input
// itself otherwise.
func primitive(d registry.ParameterDescriptor, raw any) any {
	if m := inputMap(raw); m != nil {
		if v, ok := m[d.Name]; ok {
			return v
		}
	}
	return raw
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func coerceNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, _ := strconv.ParseFloat(v, 64)
		return n
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// ── Model input copy ─────────────────────────────────────────────────────────

// copyInput copies matching keys from the raw input onto the model's
// exported fields. Keys match the field's json tag or lowercased name; values
// are loosely converted to the field's kind. Unknown keys are ignored.
func copyInput(model any, raw any) {
	input := inputMap(raw)
	if len(input) == 0 {
		return
	}

	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		val, ok := input[validation.FieldName(f)]
		if !ok {
			continue
		}
		setField(v.Field(i), val)
	}
}

func inputMap(raw any) map[string]any {
	switch m := raw.(type) {
	case map[string]any:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}

func setField(field reflect.Value, val any) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(coerceString(val))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		field.SetInt(int64(coerceNumber(val)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.SetUint(uint64(coerceNumber(val)))
	case reflect.Float32, reflect.Float64:
		field.SetFloat(coerceNumber(val))
	case reflect.Bool:
		field.SetBool(coerceBool(val))
	default:
		rv := reflect.ValueOf(val)
		if rv.IsValid() && rv.Type().AssignableTo(field.Type()) {
			field.Set(rv)
		}
	}
}
