package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dhchicaiza/registros/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func asAppError(t *testing.T, err error) *errs.Error {
	t.Helper()
	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr), "expected *errs.Error, got %T", err)
	return appErr
}

func TestMapCode(t *testing.T) {
	cases := map[string]Code{
		"23502": NotNullViolation,
		"23503": ForeignKeyViolation,
		"23505": UniqueViolation,
		"23514": CheckViolation,
		"42P01": UndefinedTable,
		"3D000": InvalidCatalogName,
		"57014": QueryCanceled,
		"08006": ConnectionException,
		"28P01": InvalidAuthorization,
		"53200": InsufficientResources,
		"22001": Other,
		"":      Other,
	}
	for state, code := range cases {
		require.Equal(t, code, MapCode(state), "sqlstate %q", state)
	}
}

func TestMapSeverity(t *testing.T) {
	require.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	require.Equal(t, SeverityError, MapSeverity("ERROR"))
	require.Equal(t, SeverityError, MapSeverity("something else"))
}

func TestHandleError_UndefinedTableEchoesMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Severity: "ERROR", Message: `relation "registros" does not exist`}

	appErr := asAppError(t, HandleError(fmt.Errorf("listing registros: %w", pgErr)))
	require.Equal(t, errs.KindQuery, appErr.Kind)
	require.Empty(t, appErr.Message)
	require.Equal(t, `relation "registros" does not exist`, appErr.Err.Error())
	require.Equal(t, UndefinedTable, ErrCode(appErr))

	httpErr := errs.ToHTTP(appErr, true)
	require.Equal(t, `relation "registros" does not exist`, httpErr.Message)
}

func TestHandleError_AuthenticationIsConnection(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "28P01", Severity: "FATAL", Message: `password authentication failed for user "usuario"`}

	appErr := asAppError(t, HandleError(pgErr))
	require.Equal(t, errs.KindConnection, appErr.Kind)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		Message:    `null value in column "nombre" violates not-null constraint`,
		TableName:  "registros",
		ColumnName: "nombre",
	}

	appErr := asAppError(t, HandleError(pgErr))
	require.Equal(t, errs.KindQuery, appErr.Kind)
	require.Equal(t, "REGISTRO_REQUIRED", appErr.Code)
	require.Equal(t, "El campo Nombre es requerido", appErr.Message)

	httpErr := errs.ToHTTP(appErr, true)
	require.Equal(t, "El campo Nombre es requerido", httpErr.Message)
	require.Contains(t, httpErr.Details, "not-null constraint")
}

func TestHandleError_UniqueViolationNamesColumn(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "registros",
		ConstraintName: "registros_nombre_key",
	}

	appErr := asAppError(t, HandleError(pgErr))
	require.Equal(t, "REGISTRO_ALREADY_EXISTS", appErr.Code)
	require.Equal(t, "Ya existe un Registro con este Nombre", appErr.Message)
}

func TestHandleError_Timeouts(t *testing.T) {
	appErr := asAppError(t, HandleError(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	require.Equal(t, errs.KindTimeout, appErr.Kind)

	canceled := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}
	appErr = asAppError(t, HandleError(canceled))
	require.Equal(t, errs.KindTimeout, appErr.Kind)
}

func TestHandleError_NoRows(t *testing.T) {
	appErr := asAppError(t, HandleError(fmt.Errorf("table:registros: %w", pgx.ErrNoRows)))
	require.Equal(t, errs.KindNotFound, appErr.Kind)
	require.Equal(t, "Registro no encontrado", appErr.Message)
}

func TestHandleError_PassesThroughClassifiedErrors(t *testing.T) {
	original := errs.NewNotFound("Registro no encontrado")
	require.Same(t, original, HandleError(original))
}

func TestHandleError_Unknown(t *testing.T) {
	appErr := asAppError(t, HandleError(errors.New("unexpected EOF")))
	require.Equal(t, errs.KindQuery, appErr.Kind)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	require.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	require.Equal(t, "nombre", extractColumnForUniqueViolation("registros_nombre_key"))
	require.Empty(t, extractColumnForUniqueViolation("registros_pkey"))
	require.Empty(t, extractColumnForUniqueViolation(""))
}
