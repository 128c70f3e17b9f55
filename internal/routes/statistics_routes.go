package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/handlers"
	"fleetmaster/internal/services"
)

func RegisterStatisticsRoutes(router chi.Router, g guards, svc *services.StatisticsService) {
	h := handlers.NewStatisticsHandler(svc)

	router.Route("/statistics", func(r chi.Router) {
		r.Use(g.auth)
		r.Get("/revenue", h.Revenue)
		r.Get("/utilization", h.Utilization)
		r.Get("/popular-models", h.PopularModels)
		r.Get("/customer-activity", h.CustomerActivity)
	})
}
