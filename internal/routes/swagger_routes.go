package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"fleetmaster/docs"
)

const swaggerIndex = "/swagger/index.html"

// RegisterSwaggerRoutes serves the generated OpenAPI document and UI.
// Bearer tokens entered in the UI survive page reloads.
func RegisterSwaggerRoutes(r chi.Router, version string) {
	if version != "" {
		docs.SwaggerInfo.Version = version
	}

	toIndex := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, swaggerIndex, http.StatusMovedPermanently)
	}
	r.Get("/swagger", toIndex)
	r.Get("/swagger/", toIndex)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.PersistAuthorization(true),
	))
}
