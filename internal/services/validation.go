package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
)

// validate is shared by every service; field errors are reported under the
// json name of the field.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// validateInput runs the struct's validate tags and converts the first
// failure into a Validation error.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apierrors.Validation(fe.Field(), validationReason(fe))
	}
	return apierrors.Validation("input", "is invalid")
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid address"
	case "min":
		if fe.Param() == "1" {
			return "cannot be empty"
		}
		return "is too short"
	case "max":
		return "is too long"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// trimmed returns a trimmed copy of an optional string.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
