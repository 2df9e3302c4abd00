package dispatch

import "github.com/voyage-web/voyage/framework/validation"

// ModelState is the per-invocation validity record attached to a controller
// before its action executes. Actions read it to decide between success and
// error rendering; the view layer reads it to surface field errors.
type ModelState struct {
	IsValid bool
	Errors  []validation.FieldError
}

// Merge folds a validation result into the record. A single invalid model
// flips the whole state.
func (m *ModelState) Merge(res validation.Result) {
	if !res.IsValid {
		m.IsValid = false
	}
	m.Errors = append(m.Errors, res.Errors...)
}

// reset returns the record to its pristine, valid state.
func (m *ModelState) reset() {
	m.IsValid = true
	m.Errors = nil
}

// ModelStateHolder is implemented by controllers that want binding-time
// validation results delivered. Embedding Controller is the usual way.
type ModelStateHolder interface {
	State() *ModelState
}

// Controller is an embeddable base carrying the ModelState record.
//
//	type ProductsController struct {
//	    dispatch.Controller
//	}
type Controller struct {
	ModelState ModelState
}

// State implements ModelStateHolder.
func (c *Controller) State() *ModelState { return &c.ModelState }
