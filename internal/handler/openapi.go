package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/dhchicaiza/registros/internal/server"
	"github.com/dhchicaiza/registros/web"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API reference UI. The page loads the UI from
// a CDN and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	page []byte
}

func NewOpenAPIHandler(s *server.Server) (*OpenAPIHandler, error) {
	page, err := fs.ReadFile(web.FS, "static/openapi.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	return &OpenAPIHandler{
		Handler: NewHandler(s),
		page:    page,
	}, nil
}

// ServeOpenAPIUI serves openapi.html without caching so doc updates show
// up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, h.page)
}
