package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every caller; validator caches struct metadata.
var validate = validator.New()

// ValidateStruct checks v against its `validate` struct tags and returns
// the first violation as an INVALID_INPUT error. Configuration files use
// [ValidateConfig] instead so the code reflects where the value came from.
func ValidateStruct(v any) error {
	return validateWith(ErrCodeInvalidInput, v)
}

// ValidateConfig is [ValidateStruct] for configuration values.
func ValidateConfig(v any) error {
	return validateWith(ErrCodeInvalidConfig, v)
}

func validateWith(code Code, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(code, err, "validation failed")
	}
	return &Error{Code: code, Message: fieldMessage(verrs[0])}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", field)
	case "required_without":
		return fmt.Sprintf("%s: field is required when %s is empty", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s: must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", field, fe.Param())
	case "url", "http_url":
		return fmt.Sprintf("%s: must be a URL", field)
	default:
		return fmt.Sprintf("%s: validation failed (%s)", field, fe.Tag())
	}
}
