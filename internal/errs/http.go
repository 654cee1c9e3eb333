// Package errs define custom error types and utilities.
//
// - Return consistent error shapes to API clients (JSON).
// - Support field-level validation errors for forms.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// FieldError represents a field-level validation error (typical for forms).
// Example:
//
//	{ "field": "nombre", "error": "es requerido" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "nombre").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the wire shape of every error response.
//
// The client-facing message travels under "error" so that callers of the
// API get `{"error": "..."}` regardless of what failed.
// Fields:
//   - Message: human-friendly message.
//   - Details: underlying cause, only set when details are exposed.
//   - Code: machine-friendly error code (e.g. "NOT_FOUND").
//   - Errors: list of per-field errors (validation).
//   - Status: HTTP status code, not serialized.
type HTTPError struct {
	Message string       `json:"error"`
	Details string       `json:"details,omitempty"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Status  int          `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also a *HTTPError. It does not compare fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Message: message,
		Details: e.Details,
		Code:    e.Code,
		Errors:  e.Errors,
		Status:  e.Status,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
