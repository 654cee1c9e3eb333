// Package errs define custom error types and utilities.
//
// Operations return an *Error carrying a Kind. The HTTP layer turns it into
// an *HTTPError with ToHTTP, the single place where kinds become statuses.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the transport.
type Kind string

const (
	// KindValidation is a missing or empty required field.
	KindValidation Kind = "validation"

	// KindNotFound means no row matched the requested id.
	KindNotFound Kind = "not_found"

	// KindConnection means the database was unreachable or rejected the credentials.
	KindConnection Kind = "connection"

	// KindQuery is a malformed statement or a constraint violation.
	KindQuery Kind = "query"

	// KindTimeout means the connect or query deadline expired.
	KindTimeout Kind = "timeout"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed error returned by services and repositories.
//
// Message is the client-facing text. When empty, the text of Err is used.
// Code overrides the machine code derived from Kind.
// Err is the underlying cause and is reachable with errors.Unwrap.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithMessage returns a copy of this Error with Message replaced.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: message,
		Fields:  e.Fields,
		Err:     e.Err,
	}
}

// NewValidationError creates a validation failure with optional field errors.
func NewValidationError(message string, fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NewNotFound creates a not found failure.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Wrap attaches a kind to err. The message of err becomes the client message.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindQuery
// for errors that were never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindQuery
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ToHTTP converts an *Error into the wire shape.
//
// For server-side kinds, exposeDetails controls whether the underlying cause
// reaches the client. When it is false only the generic status text is sent.
func ToHTTP(e *Error, exposeDetails bool) *HTTPError {
	status := e.Kind.Status()
	httpErr := &HTTPError{
		Code:   MakeUpperCaseWithUnderscores(string(e.Kind)),
		Status: status,
		Errors: e.Fields,
	}
	if e.Code != "" {
		httpErr.Code = e.Code
	}

	switch {
	case status < http.StatusInternalServerError:
		httpErr.Message = e.Message
		if httpErr.Message == "" && e.Err != nil {
			httpErr.Message = e.Err.Error()
		}
	case !exposeDetails:
		httpErr.Message = http.StatusText(status)
	case e.Message != "":
		httpErr.Message = e.Message
		if e.Err != nil {
			httpErr.Details = e.Err.Error()
		}
	case e.Err != nil:
		httpErr.Message = e.Err.Error()
	default:
		httpErr.Message = http.StatusText(status)
	}

	return httpErr
}
