package issues

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers issue routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	issueService := NewService(db)

	h := &handler{
		issueService: issueService,
	}

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/active", h.listActive)
	g.GET("/customer/:id", h.listByCustomer)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id/return", h.returnIssue)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteIssue)
}
