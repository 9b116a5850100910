package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIUIPath is the docs page served by GET /docs. It loads
// /static/openapi.json.
const OpenAPIUIPath = "static/openapi.html"

// OpenAPIHandler serves the OpenAPI UI for the persons API.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves the docs page uncached so edits show up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(OpenAPIUIPath)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
