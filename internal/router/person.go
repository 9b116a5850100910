package router

import (
	"github.com/deppfellow/person-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerPersonRoutes(g *echo.Group, h *handler.Handlers) {
	persons := g.Group("/persons")

	persons.POST("", h.Person.CreateRoute())
	persons.GET("/:id", h.Person.GetByIDRoute())
	persons.PUT("/:id", h.Person.UpdateRoute())
	persons.DELETE("/:id", h.Person.DeleteRoute())
}
