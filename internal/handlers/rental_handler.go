package handlers

import (
	"net/http"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

type RentalHandler struct {
	crud crudHandler[models.CreateRentalRequest, models.UpdateRentalRequest, models.Rental, filters.RentalFilter]
}

func NewRentalHandler(svc services.CRUDService[models.CreateRentalRequest, models.UpdateRentalRequest, models.Rental, filters.RentalFilter]) *RentalHandler {
	h := &RentalHandler{}
	h.crud = crudHandler[models.CreateRentalRequest, models.UpdateRentalRequest, models.Rental, filters.RentalFilter]{
		resource:    "Rental",
		svc:         svc,
		parseFilter: parseRentalFilter,
		validator:   newValidator(),
	}
	return h
}

func parseRentalFilter(q queryValues) (f filters.RentalFilter, err error) {
	if f.Params, err = q.page(); err != nil {
		return f, err
	}
	if f.CarID, err = q.intPtr("CarId"); err != nil {
		return f, err
	}
	if f.CustomerID, err = q.intPtr("CustomerId"); err != nil {
		return f, err
	}
	if f.StartDateFrom, err = q.timePtr("StartDateFrom"); err != nil {
		return f, err
	}
	if f.StartDateTo, err = q.timePtr("StartDateTo"); err != nil {
		return f, err
	}
	if f.EndDateFrom, err = q.timePtr("EndDateFrom"); err != nil {
		return f, err
	}
	if f.EndDateTo, err = q.timePtr("EndDateTo"); err != nil {
		return f, err
	}
	return f, nil
}

// ListRentals godoc
// @Summary      List rentals
// @Tags         rentals
// @Produce      json
// @Param        CarId          query  int     false  "Car ID"
// @Param        CustomerId     query  int     false  "Customer ID"
// @Param        StartDateFrom  query  string  false  "Start date lower bound"
// @Param        StartDateTo    query  string  false  "Start date upper bound"
// @Param        EndDateFrom    query  string  false  "End date lower bound"
// @Param        EndDateTo      query  string  false  "End date upper bound"
// @Param        PageNumber     query  int     false  "Page number"
// @Param        PageSize       query  int     false  "Page size"
// @Success      200  {object}  models.PagedResponse[[]models.Rental]
// @Router       /api/rental [get]
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) { h.crud.list(w, r) }

// GetRental godoc
// @Summary      Get a rental
// @Tags         rentals
// @Produce      json
// @Param        id   path      int  true  "Rental ID"
// @Success      200  {object}  models.Response[models.Rental]
// @Failure      404  {object}  models.Response[any]
// @Router       /api/rental/{id} [get]
func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) { h.crud.get(w, r) }

// CreateRental godoc
// @Summary      Book a rental
// @Description  The total cost is whole days between the dates times the car's daily price.
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        rental  body      models.CreateRentalRequest  true  "Rental"
// @Success      200     {object}  models.Response[models.Rental]
// @Failure      400     {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/rental [post]
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) { h.crud.create(w, r) }

// UpdateRental godoc
// @Summary      Update a rental
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        id      path      int                         true  "Rental ID"
// @Param        rental  body      models.UpdateRentalRequest  true  "Rental"
// @Success      200     {object}  models.Response[models.Rental]
// @Security     BearerAuth
// @Router       /api/rental/{id} [put]
func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) { h.crud.update(w, r) }

// DeleteRental godoc
// @Summary      Delete a rental
// @Tags         rentals
// @Produce      json
// @Param        id   path      int  true  "Rental ID"
// @Success      200  {object}  models.Response[string]
// @Security     BearerAuth
// @Router       /api/rental/{id} [delete]
func (h *RentalHandler) DeleteRental(w http.ResponseWriter, r *http.Request) { h.crud.delete(w, r) }
