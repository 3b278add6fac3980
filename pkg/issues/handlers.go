package issues

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/auth"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

type handler struct {
	issueService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateIssuePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	librarianID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	returnUntil, err := models.ParseDate(params.ReturnUntil)
	if err != nil {
		return errcodes.ValidationError(`"return_until" should be in the format of YYYY-MM-DD`)
	}

	issue := &models.Issue{
		BookID:      params.BookID,
		CustomerID:  params.CustomerID,
		LibrarianID: librarianID,
		ReturnUntil: returnUntil,
		Notes:       params.Notes,
	}
	if params.DateOfIssue != nil {
		dateOfIssue, err := models.ParseDate(*params.DateOfIssue)
		if err != nil {
			return errcodes.ValidationError(`"date_of_issue" should be in the format of YYYY-MM-DD`)
		}
		issue.DateOfIssue = dateOfIssue
	}

	if err := h.issueService.CreateIssue(ctx, issue); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, issue))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListIssuesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.issueService.Sweep(ctx, models.Today()); err != nil {
		return errors.WithStack(err)
	}

	iss, err := h.issueService.ListIssues(ctx, ListIssuesOptions{
		Status: params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, iss))
}

func (h *handler) listActive(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.issueService.Sweep(ctx, models.Today()); err != nil {
		return errors.WithStack(err)
	}

	iss, err := h.issueService.ListIssues(ctx, ListIssuesOptions{
		ActiveOnly: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, iss))
}

func (h *handler) listByCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	customerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Customer")
	}

	params := ListIssuesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.issueService.Sweep(ctx, models.Today()); err != nil {
		return errors.WithStack(err)
	}

	iss, err := h.issueService.ListIssues(ctx, ListIssuesOptions{
		CustomerID: &customerID,
		Status:     params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, iss))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Issue")
	}

	if _, err := h.issueService.Sweep(ctx, models.Today()); err != nil {
		return errors.WithStack(err)
	}

	issue, err := h.issueService.RetrieveIssue(ctx, RetrieveIssueOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, issue))
}

func (h *handler) returnIssue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Issue")
	}

	c.Set("disallow_empty_body", false)
	params := ReturnIssuePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	returnDate := models.Today()
	if params.ReturnDate != nil {
		returnDate, err = models.ParseDate(*params.ReturnDate)
		if err != nil {
			return errcodes.ValidationError(`"return_date" should be in the format of YYYY-MM-DD`)
		}
	}

	issue, err := h.issueService.ReturnIssue(ctx, id, returnDate, params.Notes)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, issue))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Issue")
	}

	params := UpdateIssuePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	issue, err := h.issueService.RetrieveIssue(ctx, RetrieveIssueOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateIssueOptions{Columns: []string{}}

	if params.ReturnUntil != nil {
		returnUntil, err := models.ParseDate(*params.ReturnUntil)
		if err != nil {
			return errcodes.ValidationError(`"return_until" should be in the format of YYYY-MM-DD`)
		}
		issue.ReturnUntil = returnUntil
		opts.Columns = append(opts.Columns, "return_until")
	}
	if params.Notes != nil {
		issue.Notes = params.Notes
		opts.Columns = append(opts.Columns, "notes")
	}

	err = h.issueService.UpdateIssue(ctx, issue, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, issue))
}

func (h *handler) deleteIssue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Issue")
	}

	err = h.issueService.DeleteIssue(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
