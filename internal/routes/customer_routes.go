package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/handlers"
	"fleetmaster/internal/services"
)

func RegisterCustomerRoutes(router chi.Router, g guards, svc *services.CustomerService) {
	h := handlers.NewCustomerHandler(svc)

	mountCRUD(router, "/customer", g, crudEndpoints{
		list:   h.ListCustomers,
		get:    h.GetCustomer,
		create: h.CreateCustomer,
		update: h.UpdateCustomer,
		delete: h.DeleteCustomer,
	}, nil)
}
