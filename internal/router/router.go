// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/countyhealth/internal/handler"
	"github.com/deppfellow/countyhealth/internal/middleware"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with global middleware, the error
// handler and every route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request ID and New Relic transaction must exist
	// before the request logger is built from them.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
	)

	if middlewares.RateLimit.Enabled() {
		router.Use(middlewares.RateLimit.Limit())
	}

	registerSystemRoutes(router, h)

	router.GET("/", handler.Handle(
		h.Index.Handler,
		h.Index.GetIndex,
		http.StatusOK,
		&handler.EmptyRequest{},
	))

	router.POST("/county_data", handler.Handle(
		h.CountyData.Handler,
		h.CountyData.GetCountyData,
		http.StatusOK,
		&handler.CountyDataRequest{},
	))

	return router
}
