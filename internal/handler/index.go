package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dhchicaiza/registros/internal/server"
	"github.com/dhchicaiza/registros/web"
	"github.com/labstack/echo/v4"
)

// IndexHandler renders the page with the registro form and table. The
// page itself talks to the /api endpoints.
type IndexHandler struct {
	Handler
	tmpl *template.Template
}

type indexData struct {
	Title   string
	APIBase string
}

func NewIndexHandler(s *server.Server) (*IndexHandler, error) {
	tmpl, err := template.ParseFS(web.FS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}

	return &IndexHandler{
		Handler: NewHandler(s),
		tmpl:    tmpl,
	}, nil
}

func (h *IndexHandler) Index(c echo.Context) error {
	var page bytes.Buffer
	if err := h.tmpl.Execute(&page, indexData{Title: "Registros", APIBase: "/api"}); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	return c.HTMLBlob(http.StatusOK, page.Bytes())
}
