package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/handlers"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/services"
)

func RegisterBranchRoutes(router chi.Router, g guards, svc *services.BranchService) {
	logger.Debug("Registering branch routes")
	h := handlers.NewBranchHandler(svc)

	mountCRUD(router, "/branch", g, crudEndpoints{
		list:   h.ListBranches,
		get:    h.GetBranch,
		create: h.CreateBranch,
		update: h.UpdateBranch,
		delete: h.DeleteBranch,
	}, nil)
}
