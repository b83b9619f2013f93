package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// InvalidInputError reports a missing or out-of-range builder parameter.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// check validates params against their struct tags and converts the first
// failure to an InvalidInputError.
func check(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return fieldError(verrs[0])
}

func fieldError(e validator.FieldError) *InvalidInputError {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return &InvalidInputError{Field: field, Reason: "is required"}
	case "min":
		return &InvalidInputError{Field: field, Reason: "must be at least " + e.Param()}
	case "oneof":
		return &InvalidInputError{Field: field, Reason: "must be one of: " + e.Param()}
	default:
		return &InvalidInputError{Field: field, Reason: "is invalid"}
	}
}
