package customers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
)

type handler struct {
	customerService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCustomerPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	customer := &models.Customer{
		Name:    params.Name,
		Address: params.Address,
		City:    params.City,
		Zip:     params.Zip,
		Email:   params.Email,
		Phone:   params.Phone,
	}
	if params.RegistrationDate != nil {
		date, err := models.ParseDate(*params.RegistrationDate)
		if err != nil {
			return errcodes.ValidationError(`"registration_date" should be in the format of YYYY-MM-DD`)
		}
		customer.RegistrationDate = date
	}

	if err := h.customerService.CreateCustomer(ctx, customer); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, customer))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCustomersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	custs, total, err := h.customerService.ListCustomersWithTotal(ctx, ListCustomersOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Name:   params.Name,
		Email:  params.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"customers": custs,
		"total":     total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Customer")
	}

	customer, err := h.customerService.RetrieveCustomer(ctx, RetrieveCustomerOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, customer))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Customer")
	}

	params := UpdateCustomerPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	customer, err := h.customerService.RetrieveCustomer(ctx, RetrieveCustomerOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateCustomerOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != customer.Name {
		customer.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Address != nil {
		customer.Address = params.Address
		opts.Columns = append(opts.Columns, "address")
	}
	if params.City != nil {
		customer.City = params.City
		opts.Columns = append(opts.Columns, "city")
	}
	if params.Zip != nil {
		customer.Zip = params.Zip
		opts.Columns = append(opts.Columns, "zip")
	}
	if params.Phone != nil {
		customer.Phone = params.Phone
		opts.Columns = append(opts.Columns, "phone")
	}
	if params.Email != nil && *params.Email != customer.Email {
		customer.Email = *params.Email
		opts.Columns = append(opts.Columns, "email")
	}
	if params.RegistrationDate != nil {
		date, err := models.ParseDate(*params.RegistrationDate)
		if err != nil {
			return errcodes.ValidationError(`"registration_date" should be in the format of YYYY-MM-DD`)
		}
		customer.RegistrationDate = date
		opts.Columns = append(opts.Columns, "registration_date")
	}

	err = h.customerService.UpdateCustomer(ctx, customer, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, customer))
}

func (h *handler) deleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Customer")
	}

	err = h.customerService.DeleteCustomer(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
