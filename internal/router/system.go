package router

import (
	"github.com/dhchicaiza/registros/internal/handler"
	"github.com/dhchicaiza/registros/web"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside the registro API:
// health status, the OpenAPI UI and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and openapi.html, embedded in the binary.
	r.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
