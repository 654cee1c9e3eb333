package handler

import (
	"github.com/dhchicaiza/registros/internal/server"
	"github.com/dhchicaiza/registros/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Registro *RegistroHandler
	Index    *IndexHandler
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) (*Handlers, error) {
	index, err := NewIndexHandler(s)
	if err != nil {
		return nil, err
	}

	openAPI, err := NewOpenAPIHandler(s)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Registro: NewRegistroHandler(s, services.Registro),
		Index:    index,
		Health:   NewHealthHandler(s),
		OpenAPI:  openAPI,
	}, nil
}
