package validation

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	gpvalidator "github.com/go-playground/validator/v10"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Rules maps a field name to a pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric"}
type Rules map[string]string

// Validatable marks a model that declares its own rule set.
type Validatable interface {
	ValidationRules() Rules
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the validity record produced for one model instance.
type Result struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

// First returns the first error message for a field.
func (r Result) First(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// ── Model detection ──────────────────────────────────────────────────────────

const modelSuffix = "Model"

// IsModel reports whether v should be treated as a bindable, validatable
// model: its type name carries the conventional Model suffix, it declares
// rules via Validatable, or its struct fields carry validate tags.
func IsModel(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Validatable); ok {
		return true
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if strings.HasSuffix(t.Name(), modelSuffix) {
		return true
	}
	return hasValidateTags(t)
}

func hasValidateTags(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup("validate"); ok {
			return true
		}
	}
	return false
}

// ── Check ────────────────────────────────────────────────────────────────────

var backend = gpvalidator.New(gpvalidator.WithRequiredStructEnabled())

// Check validates a model instance and returns its validity record. Models
// implementing Validatable are checked against their declared rule strings;
// otherwise struct-level validate tags are evaluated. A model with neither
// is valid by definition.
func Check(model any) Result {
	if model == nil {
		return Result{IsValid: true}
	}
	if v, ok := model.(Validatable); ok {
		return checkRules(FieldsOf(model), v.ValidationRules())
	}

	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if hasValidateTags(t) {
		return checkTags(model)
	}
	return Result{IsValid: true}
}

// checkTags runs the struct-tag backend and flattens its error list.
func checkTags(model any) Result {
	err := backend.Struct(model)
	if err == nil {
		return Result{IsValid: true}
	}
	res := Result{}
	if errs, ok := err.(gpvalidator.ValidationErrors); ok {
		for _, fe := range errs {
			field := strings.ToLower(fe.Field())
			res.Errors = append(res.Errors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("The %s field failed on the %s rule.", field, fe.Tag()),
			})
		}
	} else {
		res.Errors = append(res.Errors, FieldError{Field: "", Message: err.Error()})
	}
	return res
}

// ── Rule engine ──────────────────────────────────────────────────────────────

// checkRules evaluates pipe-separated rule strings against a flat string
// view of the model. Evaluation bails on the first failing rule per field.
func checkRules(data map[string]string, rules Rules) Result {
	res := Result{}
	for field, ruleStr := range rules {
		value := data[field]
		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			name, param, _ := strings.Cut(rule, ":")
			if msg, ok := applyRule(field, value, name, param); !ok {
				res.Errors = append(res.Errors, FieldError{Field: field, Message: msg})
				break
			}
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

var urlPattern = regexp.MustCompile(`^https?://`)

// applyRule returns (message, false) when the rule fails.
func applyRule(field, value, rule, param string) (string, bool) {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("The %s field is required.", field), false
		}

	case "string":
		// Field values are already strings here; presence is enough.

	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field), false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field), false
		}

	case "boolean":
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
		default:
			return fmt.Sprintf("The %s field must be true or false.", field), false
		}

	case "email":
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Sprintf("The %s must be a valid email address.", field), false
		}

	case "url":
		if !urlPattern.MatchString(value) {
			return fmt.Sprintf("The %s must be a valid URL.", field), false
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("The %s must be at least %d characters.", field, n), false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("The %s may not be greater than %d characters.", field, n), false
		}

	case "between":
		parts := strings.SplitN(param, ",", 2)
		if len(parts) != 2 {
			break
		}
		lo, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		hi, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		l := utf8.RuneCountInString(value)
		if l < lo || l > hi {
			return fmt.Sprintf("The %s must be between %d and %d characters.", field, lo, hi), false
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if strings.TrimSpace(a) == value {
				return "", true
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field), false
	}

	return "", true
}

// ── Field extraction ─────────────────────────────────────────────────────────

// FieldsOf flattens a model's exported struct fields into name → string
// value, keyed by json tag when present, lowercased field name otherwise.
func FieldsOf(model any) map[string]string {
	out := make(map[string]string)
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return out
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		out[FieldName(f)] = fmt.Sprintf("%v", v.Field(i).Interface())
	}
	return out
}

// FieldName returns the binding name for a struct field: the json tag's
// first segment when present, the lowercased field name otherwise.
func FieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}
