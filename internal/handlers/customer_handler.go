package handlers

import (
	"net/http"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

type CustomerHandler struct {
	crud crudHandler[models.CreateCustomerRequest, models.UpdateCustomerRequest, models.Customer, filters.CustomerFilter]
}

func NewCustomerHandler(svc services.CRUDService[models.CreateCustomerRequest, models.UpdateCustomerRequest, models.Customer, filters.CustomerFilter]) *CustomerHandler {
	h := &CustomerHandler{}
	h.crud = crudHandler[models.CreateCustomerRequest, models.UpdateCustomerRequest, models.Customer, filters.CustomerFilter]{
		resource:    "Customer",
		svc:         svc,
		parseFilter: parseCustomerFilter,
		validator:   newValidator(),
	}
	return h
}

func parseCustomerFilter(q queryValues) (filters.CustomerFilter, error) {
	params, err := q.page()
	if err != nil {
		return filters.CustomerFilter{}, err
	}
	return filters.CustomerFilter{
		Params:   params,
		FullName: q.str("FullName"),
		Phone:    q.str("Phone"),
		Email:    q.str("Email"),
	}, nil
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        FullName    query  string  false  "Full name contains"
// @Param        Phone       query  string  false  "Phone contains"
// @Param        Email       query  string  false  "Email contains"
// @Param        PageNumber  query  int     false  "Page number"
// @Param        PageSize    query  int     false  "Page size"
// @Success      200  {object}  models.PagedResponse[[]models.Customer]
// @Router       /api/customer [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) { h.crud.list(w, r) }

// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.Response[models.Customer]
// @Failure      404  {object}  models.Response[any]
// @Router       /api/customer/{id} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) { h.crud.get(w, r) }

// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      models.CreateCustomerRequest  true  "Customer"
// @Success      200       {object}  models.Response[models.Customer]
// @Security     BearerAuth
// @Router       /api/customer [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) { h.crud.create(w, r) }

// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id        path      int                           true  "Customer ID"
// @Param        customer  body      models.UpdateCustomerRequest  true  "Customer"
// @Success      200       {object}  models.Response[models.Customer]
// @Security     BearerAuth
// @Router       /api/customer/{id} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) { h.crud.update(w, r) }

// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.Response[string]
// @Failure      409  {object}  models.Response[map[string]int64]
// @Security     BearerAuth
// @Router       /api/customer/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) { h.crud.delete(w, r) }
