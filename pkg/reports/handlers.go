package reports

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

type handler struct {
	reportService *Service
}

func (h *handler) reminders(c echo.Context) error {
	ctx := c.Request().Context()

	params := RemindersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.reportService.Reminders(ctx, models.Today(), RemindersOptions{
		SortBy:       params.SortBy,
		Order:        params.Order,
		CustomerName: params.CustomerName,
		BookTitle:    params.BookTitle,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) remindersExport(c echo.Context) error {
	ctx := c.Request().Context()

	params := RemindersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.reportService.Reminders(ctx, models.Today(), RemindersOptions{
		SortBy:       params.SortBy,
		Order:        params.Order,
		CustomerName: params.CustomerName,
		BookTitle:    params.BookTitle,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+RemindersCSVFilename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	return errors.WithStack(WriteRemindersCSV(c.Response(), rows))
}

func (h *handler) bookHistory(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := BookHistoryQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, rows, err := h.reportService.BookHistory(ctx, bookID, models.Today(), BookHistoryOptions{
		SortBy: params.SortBy,
		Order:  params.Order,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"book_id":    book.ID,
		"book_title": book.Title,
		"history":    rows,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) bookHistoryExport(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := BookHistoryQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, rows, err := h.reportService.BookHistory(ctx, bookID, models.Today(), BookHistoryOptions{
		SortBy: params.SortBy,
		Order:  params.Order,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+BookHistoryCSVFilename(book.Title)+`"`)
	c.Response().WriteHeader(http.StatusOK)

	return errors.WithStack(WriteBookHistoryCSV(c.Response(), rows))
}
