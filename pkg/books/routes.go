package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfdesk/shelfdesk/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterPublicRoutes registers the read-only book routes.
func RegisterPublicRoutes(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{bookService: NewService(db), cfg: cfg}

	g.GET("", h.list)
	g.GET("/covers/:filename", h.serveCover)
	g.GET("/:id", h.retrieve)
}

// RegisterAdminRoutes registers the book routes that modify data.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{bookService: NewService(db), cfg: cfg}

	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteBook)
	g.POST("/:id/cover", h.uploadCover)
}
