package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dhchicaiza/registros/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped sqlerr.Code for a given error, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// kindFor decides which errs.Kind a database code belongs to.
func kindFor(code Code) errs.Kind {
	switch code {
	case ConnectionException, InvalidAuthorization, InvalidCatalogName,
		AdminShutdown, TooManyConnections, InsufficientResources:
		return errs.KindConnection
	case QueryCanceled:
		return errs.KindTimeout
	default:
		return errs.KindQuery
	}
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format is <DOMAIN>_<ACTION>, e.g. registros + NotNullViolation => REGISTRO_REQUIRED.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: "REGISTROS" -> "REGISTRO".
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage phrases constraint violations for end users.
// It returns "" for codes that have no friendly phrasing.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("El %s referenciado no existe", entityName)

	case UniqueViolation:
		message := fmt.Sprintf("Ya existe un %s con este identificador", entityName)
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			message = strings.ReplaceAll(message, "este identificador", "este "+humanizeText(column))
		}
		return message

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "campo"
		}
		return fmt.Sprintf("El campo %s es requerido", fieldName)

	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("El valor de %s no cumple las condiciones requeridas", fieldName)
		}
		return "Uno o más valores no cumplen las condiciones requeridas"
	}

	return ""
}

// getEntityName infers an entity name from table/column data.
//
//  1. A column ending in "_id" names the referenced entity ("registro_id" -> "Registro").
//  2. Otherwise the table name, singularized if it ends with "s".
//  3. Otherwise "registro".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "registro"
}

// humanizeText converts snake_case identifiers into Title Case.
//
//	"fecha_creacion" -> "Fecha Creacion"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.Spanish).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// Supported conventions: "unique_<table>_<column>" and "<table>_<column>_(key|ukey)".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into a classified *errs.Error.
//
//   - *errs.Error: returned unchanged
//   - context deadline / driver timeout: KindTimeout
//   - pgconn.PgError: kind by SQLSTATE, constraint violations get a friendly message
//   - pgconn.ConnectError: KindConnection
//   - ErrNoRows: KindNotFound
//   - anything else: KindQuery
//
// HandleError must not be called with a nil error.
func HandleError(err error) error {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return &errs.Error{Kind: errs.KindTimeout, Code: "DATABASE_TIMEOUT", Err: err}
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		return &errs.Error{
			Kind:    kindFor(sqlErr.Code),
			Code:    generateErrorCode(sqlErr.TableName, sqlErr.Code),
			Message: formatUserFriendlyMessage(sqlErr),
			Err:     sqlErr,
		}
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return &errs.Error{Kind: errs.KindConnection, Code: "DATABASE_UNAVAILABLE", Err: err}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		// Repositories tag the table as "table:<name>:" in the wrapping message.
		entityName := "Registro"
		if errMsg, tablePrefix := err.Error(), "table:"; strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName = getEntityName(table, "")
		}
		return errs.NewNotFound(fmt.Sprintf("%s no encontrado", entityName))
	}

	return errs.Wrap(errs.KindQuery, err)
}
