package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterPublicRoutes registers the read-only author routes.
func RegisterPublicRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{authorService: NewService(db)}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}

// RegisterAdminRoutes registers the author routes that modify data.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{authorService: NewService(db)}

	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteAuthor)
}
