package routes

import (
	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/handlers"
	"fleetmaster/internal/services"
)

func RegisterAccountRoutes(router chi.Router, g guards, svc *services.AccountService) {
	h := handlers.NewAccountHandler(svc)

	router.Route("/account", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/request-password-reset", h.RequestPasswordReset)
		r.Post("/reset-password", h.ResetPassword)
		r.With(g.auth).Post("/change-password", h.ChangePassword)
	})
}
