package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/handlers"
	"fleetmaster/internal/services"
)

func RegisterRentalRoutes(router chi.Router, g guards, svc *services.RentalService) {
	h := handlers.NewRentalHandler(svc)

	mountCRUD(router, "/rental", g, crudEndpoints{
		list:   h.ListRentals,
		get:    h.GetRental,
		create: h.CreateRental,
		update: h.UpdateRental,
		delete: h.DeleteRental,
	}, nil)
}
