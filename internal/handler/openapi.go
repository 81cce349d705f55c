package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/labstack/echo/v4"
)

// StaticDir holds openapi.html and openapi.json, relative to the working directory.
const StaticDir = "static"

// OpenAPIHandler serves the interactive API documentation page.
type OpenAPIHandler struct {
	Handler
	staticDir string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler:   NewHandler(s),
		staticDir: StaticDir,
	}
}

// ServeOpenAPIUI serves openapi.html uncached so doc edits show up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(filepath.Join(h.staticDir, "openapi.html"))

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
