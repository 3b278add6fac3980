package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/config"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

type handler struct {
	bookService *Service
	cfg         *config.Config
}

func parseOptionalDate(value *string, field string) (*models.Date, error) {
	if value == nil {
		return nil, nil
	}
	date, err := models.ParseDate(*value)
	if err != nil {
		return nil, errcodes.ValidationError("\"" + field + "\" should be in the format of YYYY-MM-DD")
	}
	return &date, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	firstPublishDate, err := parseOptionalDate(params.FirstPublishDate, "first_publish_date")
	if err != nil {
		return err
	}

	book := &models.Book{
		Title:            params.Title,
		Subtitle:         params.Subtitle,
		FirstPublishDate: firstPublishDate,
		Description:      params.Description,
	}

	if err := h.bookService.CreateBook(ctx, book, params.AuthorIDs, params.Subjects); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:   &params.Limit,
		Offset:  &params.Offset,
		Title:   params.Title,
		Author:  params.Author,
		Subject: params.Subject,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"books": books,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Subtitle != nil {
		book.Subtitle = params.Subtitle
		opts.Columns = append(opts.Columns, "subtitle")
	}
	if params.Description != nil {
		book.Description = params.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if params.FirstPublishDate != nil {
		firstPublishDate, err := parseOptionalDate(params.FirstPublishDate, "first_publish_date")
		if err != nil {
			return err
		}
		book.FirstPublishDate = firstPublishDate
		opts.Columns = append(opts.Columns, "first_publish_date")
	}
	if params.AuthorIDs != nil {
		opts.AuthorIDs = params.AuthorIDs
	}
	if params.Subjects != nil {
		opts.Subjects = params.Subjects
	}

	err = h.bookService.UpdateBook(ctx, book, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	err = h.bookService.DeleteBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
