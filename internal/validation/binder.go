package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dhchicaiza/registros/internal/errs"
	"github.com/labstack/echo/v4"
)

const (
	invalidPathParamMessage = "El id debe ser un número entero"
	invalidBodyMessage      = "Cuerpo JSON inválido"
)

// StrictBinder binds path parameters with echo's DefaultBinder and decodes
// JSON bodies rejecting unknown fields.
//
// Query parameters and form bodies are ignored. An empty body leaves the
// payload untouched so the validator reports the missing fields.
type StrictBinder struct {
	echo.DefaultBinder
}

// NewBinder returns the binder installed on the echo instance.
func NewBinder() *StrictBinder {
	return &StrictBinder{}
}

func (b *StrictBinder) Bind(i interface{}, c echo.Context) error {
	if err := b.BindPathParams(c, i); err != nil {
		return errs.NewValidationError(invalidPathParamMessage, []errs.FieldError{
			{Field: pathParamName(c), Error: "debe ser un número entero"},
		})
	}

	req := c.Request()
	switch req.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		return nil
	}
	if req.Body == nil || req.ContentLength == 0 {
		return nil
	}

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errs.NewValidationError(invalidBodyMessage, []errs.FieldError{
			{Error: decodeMessage(err)},
		})
	}

	if dec.More() {
		return errs.NewValidationError(invalidBodyMessage, []errs.FieldError{
			{Error: "el cuerpo debe contener un único objeto JSON"},
		})
	}
	return nil
}

func pathParamName(c echo.Context) string {
	if names := c.ParamNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// decodeMessage describes a JSON decoding failure in Spanish.
func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("JSON mal formado en la posición %d", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return "el cuerpo debe ser un objeto JSON"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("el campo %s debe ser de tipo %s", typeErr.Field, typeErr.Type)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "JSON incompleto"
	default:
		// encoding/json reports unknown keys only through the message text.
		return err.Error()
	}
}
