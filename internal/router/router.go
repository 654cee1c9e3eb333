// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/dhchicaiza/registros/internal/handler"
	"github.com/dhchicaiza/registros/internal/middleware"
	"github.com/dhchicaiza/registros/internal/server"
	"github.com/dhchicaiza/registros/internal/validation"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware stack,
// the system routes, the index page and the /api routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Binder = validation.NewBinder()
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request ID and the New Relic transaction must exist
	// before the context enhancer builds the request logger.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	router.GET("/", h.Index.Index)

	api := router.Group("/api")
	registerRegistroRoutes(api, h)

	return router
}

func registerRegistroRoutes(api *echo.Group, h *handler.Handlers) {
	api.POST("/crear", handler.Handle(h.Registro.CreateRegistro, http.StatusCreated))
	api.GET("/registros", handler.Handle(h.Registro.ListRegistros, http.StatusOK))
	api.GET("/registros/:id", handler.Handle(h.Registro.GetRegistro, http.StatusOK))
	api.PUT("/registros/:id", handler.Handle(h.Registro.UpdateRegistro, http.StatusOK))
	api.DELETE("/registros/:id", handler.Handle(h.Registro.DeleteRegistro, http.StatusOK))
}
