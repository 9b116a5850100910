// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or length limits) defined in struct tags
// and extracts validation errors into a format the client can
// understand
package validation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ValidationFailedMessage is the envelope message for field-level failures.
const ValidationFailedMessage = "Validation failed"

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// nonul rejects strings containing U+0000, which postgres TEXT cannot store.
	if err := v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	}); err != nil {
		panic(err)
	}

	return v
}

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// Struct runs the struct-tag rules of v.
func Struct(v any) error {
	return validate.Struct(v)
}

// Result is the outcome of the field-validation step.
type Result struct {
	Valid       bool
	FieldErrors []errs.FieldError
}

// Check runs payload.Validate and reports the outcome as a Result.
func Check(payload Validatable) Result {
	err := payload.Validate()
	if err == nil {
		return Result{Valid: true}
	}
	return Result{FieldErrors: extractValidationError(err)}
}

// BindAndValidate binds request data into payload and validates it.
//
// payload must be a pointer. Bind failures (malformed JSON, type mismatches)
// become a 400 carrying echo's message; rule failures become a 400
// "Validation failed" with one field error per violation.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if result := Check(payload); !result.Valid {
		return errs.NewBadRequestError(ValidationFailedMessage, nil, result.FieldErrors)
	}

	return nil
}

func bindError(err error) *errs.HTTPError {
	message := http.StatusText(http.StatusBadRequest)

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		}
	}

	return errs.NewBadRequestError(message, nil, nil).WithCause(err)
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "request", Message: err.Error()}}
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())

		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "max":
			msg = fmt.Sprintf("must not exceed %s characters", fe.Param())

		case "nonul":
			msg = "must not contain NUL characters"

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   field,
			Message: msg,
		})
	}

	return fieldErrors
}
