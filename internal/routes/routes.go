// internal/routes/routes.go
package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fleetmaster/internal/config"
	"fleetmaster/internal/handlers"
	appmw "fleetmaster/internal/middleware"
	"fleetmaster/internal/models"
	"fleetmaster/internal/repository"
	"fleetmaster/internal/services"
)

// Deps are the collaborators that reach outside the process. Nil fields fall
// back to the log mailer and an unlimited reset limiter; a nil image store
// disables the car photo endpoint. Accounts, when set, is the service the
// caller already seeded and is mounted as is.
type Deps struct {
	Mailer   services.EmailSender
	Limiter  services.ResetLimiter
	Images   services.ImageStore
	Accounts *services.AccountService
}

type guards struct {
	auth  func(http.Handler) http.Handler
	admin func(http.Handler) http.Handler
}

func SetupRoutes(db *sql.DB, cfg *config.Config, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if deps.Mailer == nil {
		deps.Mailer = services.NewLogSender()
	}
	if deps.Limiter == nil {
		deps.Limiter = services.NoopResetLimiter()
	}
	if deps.Accounts == nil {
		deps.Accounts = services.NewAccountService(
			repository.NewUserRepository(db),
			repository.NewCustomerRepository(db),
			repository.NewPasswordResetRepository(db),
			deps.Mailer,
			deps.Limiter,
			cfg,
		)
	}

	g := guards{
		auth: appmw.JWTAuth(appmw.JWTOptions{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}),
		admin: appmw.RequireRole(models.RoleAdmin),
	}

	branches := repository.NewBranchRepository(db)
	cars := repository.NewCarRepository(db)
	customers := repository.NewCustomerRepository(db)
	rentals := repository.NewRentalRepository(db)

	health := handlers.NewHealthHandler(db)
	r.Get("/", health.Root)
	r.Get("/health", health.Health)
	RegisterSwaggerRoutes(r, cfg.Version)

	r.Route("/api", func(r chi.Router) {
		RegisterBranchRoutes(r, g, services.NewBranchService(branches))
		RegisterCarRoutes(r, g, services.NewCarService(cars, deps.Images), deps.Images != nil)
		RegisterCustomerRoutes(r, g, services.NewCustomerService(customers))
		RegisterRentalRoutes(r, g, services.NewRentalService(rentals, cars))
		RegisterStatisticsRoutes(r, g, services.NewStatisticsService(cars, customers, rentals))
		RegisterAccountRoutes(r, g, deps.Accounts)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// crudEndpoints mounts the standard resource layout: reads are public, writes
// need a token and deletes need the Admin role.
type crudEndpoints struct {
	list, get, create, update, delete http.HandlerFunc
}

func mountCRUD(router chi.Router, path string, g guards, e crudEndpoints, extra func(r chi.Router)) {
	router.Route(path, func(r chi.Router) {
		r.Get("/", e.list)
		r.Get("/{id}", e.get)
		r.Group(func(r chi.Router) {
			r.Use(g.auth)
			r.Post("/", e.create)
			r.Put("/{id}", e.update)
			r.With(g.admin).Delete("/{id}", e.delete)
			if extra != nil {
				extra(r)
			}
		})
	})
}
