package validation

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Handlers invoke it through c.Validate before touching the scheduling core.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the default tag-based rule set.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the struct's `validate` tags and reports failures as a
// 422 so structural errors are distinguishable from semantic 400s.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
