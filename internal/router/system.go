package router

import (
	"github.com/deppfellow/countyhealth/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints outside the lookup API: health,
// the docs UI and the static files it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
