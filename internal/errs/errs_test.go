package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind_Status(t *testing.T) {
	cases := map[Kind]int{
		KindValidation: http.StatusBadRequest,
		KindNotFound:   http.StatusNotFound,
		KindConnection: http.StatusInternalServerError,
		KindQuery:      http.StatusInternalServerError,
		KindTimeout:    http.StatusInternalServerError,
	}
	for kind, status := range cases {
		require.Equal(t, status, kind.Status(), "kind %s", kind)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("listing: %w", Wrap(KindConnection, errors.New("dial tcp: refused")))
	require.Equal(t, KindConnection, KindOf(wrapped))
	require.True(t, IsKind(wrapped, KindConnection))
	require.False(t, IsKind(wrapped, KindTimeout))

	require.Equal(t, KindQuery, KindOf(errors.New("unclassified")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindQuery, cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "boom", err.Error())

	named := err.WithMessage("Error al consultar")
	require.Equal(t, "Error al consultar: boom", named.Error())
	require.ErrorIs(t, named, cause)
}

func TestToHTTP_Validation(t *testing.T) {
	fields := []FieldError{{Field: "nombre", Error: "es requerido"}}
	httpErr := ToHTTP(NewValidationError("Faltan campos requeridos", fields), false)

	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Equal(t, "Faltan campos requeridos", httpErr.Message)
	require.Equal(t, "VALIDATION", httpErr.Code)
	require.Equal(t, fields, httpErr.Errors)
	require.Empty(t, httpErr.Details)
}

func TestToHTTP_NotFound(t *testing.T) {
	httpErr := ToHTTP(NewNotFound("Registro no encontrado"), true)
	require.Equal(t, http.StatusNotFound, httpErr.Status)
	require.Equal(t, "Registro no encontrado", httpErr.Message)
}

func TestToHTTP_ServerErrorsEchoCause(t *testing.T) {
	httpErr := ToHTTP(Wrap(KindQuery, errors.New("relation \"registros\" does not exist")), true)
	require.Equal(t, http.StatusInternalServerError, httpErr.Status)
	require.Equal(t, "relation \"registros\" does not exist", httpErr.Message)
	require.Empty(t, httpErr.Details)

	named := Wrap(KindConnection, errors.New("connection refused")).WithMessage("Error al conectar o consultar la base de datos")
	httpErr = ToHTTP(named, true)
	require.Equal(t, "Error al conectar o consultar la base de datos", httpErr.Message)
	require.Equal(t, "connection refused", httpErr.Details)
}

func TestToHTTP_HidesDetails(t *testing.T) {
	named := Wrap(KindConnection, errors.New("password authentication failed")).WithMessage("Error al conectar")
	httpErr := ToHTTP(named, false)

	require.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
	require.Empty(t, httpErr.Details)
	require.NotContains(t, httpErr.Message, "password")
}

func TestHTTPError_WithMessage(t *testing.T) {
	base := NewNotFoundError("Route not found", nil)
	copied := base.WithMessage("Ruta no encontrada")

	require.Equal(t, "Route not found", base.Message)
	require.Equal(t, "Ruta no encontrada", copied.Message)
	require.Equal(t, base.Status, copied.Status)
	require.True(t, errors.Is(copied, &HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	require.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	require.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("not_found"))
}
