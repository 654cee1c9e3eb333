package validation

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/dhchicaiza/registros/internal/errs"
	"github.com/dhchicaiza/registros/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newContext(method, body string, params ...string) echo.Context {
	e := echo.New()
	e.Binder = NewBinder()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	c := e.NewContext(req, httptest.NewRecorder())
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return c
}

func validationError(t *testing.T, err error) *errs.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*errs.Error)
	require.True(t, ok, "expected *errs.Error, got %T", err)
	require.Equal(t, errs.KindValidation, appErr.Kind)
	return appErr
}

func TestBindAndValidate_Create(t *testing.T) {
	req := &model.CreateRegistroRequest{}
	require.NoError(t, BindAndValidate(newContext(http.MethodPost, `{"nombre":"Ana","mensaje":"Hola"}`), req))
	require.Equal(t, "Ana", *req.Nombre)
	require.Equal(t, "Hola", *req.Mensaje)
}

func TestBindAndValidate_CreateMissingField(t *testing.T) {
	appErr := validationError(t, BindAndValidate(newContext(http.MethodPost, `{"nombre":"Ana"}`), &model.CreateRegistroRequest{}))
	require.Equal(t, "Faltan campos requeridos", appErr.Message)
	require.Equal(t, []errs.FieldError{{Field: "mensaje", Error: "es requerido"}}, appErr.Fields)
}

func TestBindAndValidate_CreateEmptyBody(t *testing.T) {
	appErr := validationError(t, BindAndValidate(newContext(http.MethodPost, ""), &model.CreateRegistroRequest{}))
	require.Len(t, appErr.Fields, 2)
}

func TestBindAndValidate_UnknownField(t *testing.T) {
	appErr := validationError(t, BindAndValidate(
		newContext(http.MethodPost, `{"nombre":"Ana","mensaje":"Hola","extra":1}`),
		&model.CreateRegistroRequest{},
	))
	require.Equal(t, invalidBodyMessage, appErr.Message)
	require.Contains(t, appErr.Fields[0].Error, "extra")
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	appErr := validationError(t, BindAndValidate(newContext(http.MethodPost, `{"nombre":`), &model.CreateRegistroRequest{}))
	require.Equal(t, invalidBodyMessage, appErr.Message)

	appErr = validationError(t, BindAndValidate(newContext(http.MethodPost, `{"nombre":5,"mensaje":"x"}`), &model.CreateRegistroRequest{}))
	require.Contains(t, appErr.Fields[0].Error, "nombre")
}

func TestBindAndValidate_NonObjectBody(t *testing.T) {
	for _, body := range []string{`[]`, `"Ana"`, `42`, `true`} {
		appErr := validationError(t, BindAndValidate(newContext(http.MethodPost, body), &model.CreateRegistroRequest{}))
		require.Equal(t, invalidBodyMessage, appErr.Message, body)
		require.NotContains(t, appErr.Fields[0].Error, "model.", body)
		require.NotContains(t, appErr.Fields[0].Error, "  ", body)
	}

	appErr := validationError(t, BindAndValidate(newContext(http.MethodPost, `[]`), &model.CreateRegistroRequest{}))
	require.Equal(t, "el cuerpo debe ser un objeto JSON", appErr.Fields[0].Error)
}

func TestBindAndValidate_UpdateRequiresNonEmpty(t *testing.T) {
	req := &model.UpdateRegistroRequest{}
	require.NoError(t, BindAndValidate(newContext(http.MethodPut, `{"nombre":"Ana","mensaje":"Adios"}`, "id", "12"), req))
	require.Equal(t, int64(12), req.ID)
	require.Equal(t, "Adios", req.Mensaje)

	appErr := validationError(t, BindAndValidate(
		newContext(http.MethodPut, `{"nombre":"","mensaje":"Adios"}`, "id", "12"),
		&model.UpdateRegistroRequest{},
	))
	require.Equal(t, "Nombre y mensaje son requeridos", appErr.Message)
}

func TestBindAndValidate_BodyCannotOverrideID(t *testing.T) {
	appErr := validationError(t, BindAndValidate(
		newContext(http.MethodPut, `{"id":99,"nombre":"Ana","mensaje":"Adios"}`, "id", "12"),
		&model.UpdateRegistroRequest{},
	))
	require.Equal(t, invalidBodyMessage, appErr.Message)
}

func TestBindAndValidate_NonIntegerID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z][a-z0-9]{0,8}`).Draw(t, "id")

		err := BindAndValidate(newContext(http.MethodGet, "", "id", id), &model.GetRegistroRequest{})
		appErr, ok := err.(*errs.Error)
		if !ok || appErr.Kind != errs.KindValidation {
			t.Fatalf("id %q: expected validation error, got %v", id, err)
		}
		if appErr.Message != invalidPathParamMessage || appErr.Fields[0].Field != "id" {
			t.Fatalf("id %q: unexpected error %+v", id, appErr)
		}
	})
}

func TestBindAndValidate_IntegerID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.Int64Min(1).Draw(t, "id")

		req := &model.DeleteRegistroRequest{}
		if err := BindAndValidate(newContext(http.MethodDelete, "", "id", strconv.FormatInt(id, 10)), req); err != nil {
			t.Fatalf("id %d: %v", id, err)
		}
		if req.ID != id {
			t.Fatalf("bound %d, want %d", req.ID, id)
		}
	})
}
