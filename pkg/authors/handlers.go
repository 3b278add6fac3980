package authors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

type handler struct {
	authorService *Service
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

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	birthDate, err := parseOptionalDate(params.BirthDate, "birth_date")
	if err != nil {
		return err
	}
	deathDate, err := parseOptionalDate(params.DeathDate, "death_date")
	if err != nil {
		return err
	}

	author := &models.Author{
		Name:      params.Name,
		Bio:       params.Bio,
		BirthDate: birthDate,
		DeathDate: deathDate,
		Wikipedia: params.Wikipedia,
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, author))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Name:   params.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"authors": authors,
		"total":   total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAuthorOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != author.Name {
		author.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Bio != nil {
		author.Bio = params.Bio
		opts.Columns = append(opts.Columns, "bio")
	}
	if params.Wikipedia != nil {
		author.Wikipedia = params.Wikipedia
		opts.Columns = append(opts.Columns, "wikipedia")
	}
	if params.BirthDate != nil {
		birthDate, err := parseOptionalDate(params.BirthDate, "birth_date")
		if err != nil {
			return err
		}
		author.BirthDate = birthDate
		opts.Columns = append(opts.Columns, "birth_date")
	}
	if params.DeathDate != nil {
		deathDate, err := parseOptionalDate(params.DeathDate, "death_date")
		if err != nil {
			return err
		}
		author.DeathDate = deathDate
		opts.Columns = append(opts.Columns, "death_date")
	}

	err = h.authorService.UpdateAuthor(ctx, author, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) deleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	err = h.authorService.DeleteAuthor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
