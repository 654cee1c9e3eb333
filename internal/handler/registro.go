package handler

import (
	"github.com/dhchicaiza/registros/internal/model"
	"github.com/dhchicaiza/registros/internal/server"
	"github.com/dhchicaiza/registros/internal/service"
	"github.com/labstack/echo/v4"
)

// RegistroHandler serves the /api registro endpoints.
type RegistroHandler struct {
	Handler
	registros *service.RegistroService
}

func NewRegistroHandler(s *server.Server, registros *service.RegistroService) *RegistroHandler {
	return &RegistroHandler{
		Handler:   NewHandler(s),
		registros: registros,
	}
}

func (h *RegistroHandler) CreateRegistro(c echo.Context, req *model.CreateRegistroRequest) (*model.StatusResponse, error) {
	return h.registros.Create(c.Request().Context(), req)
}

func (h *RegistroHandler) ListRegistros(c echo.Context, req *model.ListRegistrosRequest) ([]model.Registro, error) {
	return h.registros.List(c.Request().Context(), req)
}

func (h *RegistroHandler) GetRegistro(c echo.Context, req *model.GetRegistroRequest) (*model.Registro, error) {
	return h.registros.Get(c.Request().Context(), req)
}

func (h *RegistroHandler) UpdateRegistro(c echo.Context, req *model.UpdateRegistroRequest) (*model.StatusResponse, error) {
	return h.registros.Update(c.Request().Context(), req)
}

func (h *RegistroHandler) DeleteRegistro(c echo.Context, req *model.DeleteRegistroRequest) (*model.StatusResponse, error) {
	return h.registros.Delete(c.Request().Context(), req)
}
