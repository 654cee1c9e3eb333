// Package validation contains the logic for binding and validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and extracts validation
// errors into a format the client can understand
package validation

import (
	"errors"

	"github.com/dhchicaiza/registros/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that runs validator.Struct(req)
type Validatable interface {
	Validate() error
}

// messenger lets a payload choose the top-level message of its validation error.
type messenger interface {
	ValidationMessage() string
}

// DefaultValidationMessage is used when a payload does not provide its own.
const DefaultValidationMessage = "Datos de entrada inválidos"

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates the request struct from path params and the JSON body.
// 2) payload.Validate() applies validation rules.
// 3) Failures are returned as a validation *errs.Error (400) with field-level errors.
//
// NOTE: c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return errs.NewValidationError(bindMessage(err), nil)
	}

	if err := payload.Validate(); err != nil {
		message := DefaultValidationMessage
		if m, ok := payload.(messenger); ok {
			message = m.ValidationMessage()
		}
		return errs.NewValidationError(message, extractValidationError(err))
	}

	return nil
}

// bindMessage extracts the client message of an echo bind error.
func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
