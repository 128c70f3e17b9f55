package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/handlers"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/services"
)

// RegisterCarRoutes mounts /car. The photo upload is only exposed when an
// image store is configured.
func RegisterCarRoutes(router chi.Router, g guards, svc *services.CarService, withImages bool) {
	logger.Debug("Registering car routes", "images", withImages)
	h := handlers.NewCarHandler(svc)

	var extra func(r chi.Router)
	if withImages {
		extra = func(r chi.Router) {
			r.Post("/{id}/image", h.UploadCarImage)
		}
	}
	mountCRUD(router, "/car", g, crudEndpoints{
		list:   h.ListCars,
		get:    h.GetCar,
		create: h.CreateCar,
		update: h.UpdateCar,
		delete: h.DeleteCar,
	}, extra)
}
