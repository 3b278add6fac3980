package showcase

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterPublicRoutes registers the read side of the showcase.
func RegisterPublicRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{showcaseService: NewService(db)}

	g.GET("", h.get)
}

// RegisterAdminRoutes registers the write side of the showcase.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{showcaseService: NewService(db)}

	g.POST("", h.set)
}
