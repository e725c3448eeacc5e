// Package validation provides record validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// Rule is a cross-field check that struct tags cannot express.
// It returns the offending field and a message, or an empty field when the check passes.
type Rule func() (field, message string)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct's tags and then the extra rules, and returns a
// single ValidationFailed error whose details map every failing field to a message.
func (v *Validator) Validate(s any, rules ...Rule) error {
	fieldErrors := make(map[string]string)

	if err := v.v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		for _, e := range validationErrs {
			fieldErrors[fieldPath(e)] = v.friendlyMessage(e)
		}
	}

	for _, rule := range rules {
		if field, msg := rule(); field != "" {
			if _, exists := fieldErrors[field]; !exists {
				fieldErrors[field] = msg
			}
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

// fieldPath drops the root struct name from the namespace ("Plan.items[0].priority" -> "items[0].priority").
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "datetime":
		return "must be a date in " + e.Param() + " format"
	case "hexcolor":
		return "must be a hex color"
	default:
		return "is invalid"
	}
}

// Details extracts the field map from a validation error, or nil.
func Details(err error) map[string]string {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code != domainerrors.CodeValidationFailed {
		return nil
	}
	details, _ := domainErr.Details.(map[string]string)
	return details
}
