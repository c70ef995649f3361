// Package validation wires go-playground/validator behind Echo's Validator
// interface so handlers can call c.Validate(&req) after binding. Validation
// failures carry per-field detail and surface as 422 responses.
package validation

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Errors holds field-level validation failures keyed by the JSON field name.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator adapts a validator.Validate instance to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports JSON tag names instead of Go field
// names, so error detail matches what the client actually sent.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator. It returns *Errors on tag violations.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &Errors{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = reason(fe)
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// Respond writes the error produced by c.Validate (or c.Bind) as JSON.
// Field-level failures become a 422 with a fields map; anything else is a
// generic 400.
func Respond(c echo.Context, err error) error {
	if verr, ok := err.(*Errors); ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}
