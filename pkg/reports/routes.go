package reports

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers report routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	reportService := NewService(db)

	h := &handler{
		reportService: reportService,
	}

	g.GET("/reminders", h.reminders)
	g.GET("/reminders/export", h.remindersExport)
	g.GET("/book-history/:bookId", h.bookHistory)
	g.GET("/book-history/:bookId/export", h.bookHistoryExport)
}
