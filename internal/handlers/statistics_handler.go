package handlers

import (
	"context"
	"net/http"

	"fleetmaster/internal/models"
)

type StatisticsService interface {
	Revenue(ctx context.Context, q models.StatisticsQuery) (*models.RevenueReport, error)
	Utilization(ctx context.Context, q models.StatisticsQuery) ([]models.CarUtilization, error)
	PopularModels(ctx context.Context, q models.StatisticsQuery) ([]models.PopularModel, error)
	CustomerActivity(ctx context.Context, q models.StatisticsQuery) ([]models.CustomerActivity, error)
}

type StatisticsHandler struct {
	svc StatisticsService
}

func NewStatisticsHandler(svc StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{svc: svc}
}

func parseStatisticsQuery(q queryValues) (s models.StatisticsQuery, err error) {
	if s.StartDate, err = q.timePtr("StartDate"); err != nil {
		return s, err
	}
	if s.EndDate, err = q.timePtr("EndDate"); err != nil {
		return s, err
	}
	return s, nil
}

// serveReport parses the window, runs the report and wraps it in the envelope.
func serveReport[T any](w http.ResponseWriter, r *http.Request, message string, run func(context.Context, models.StatisticsQuery) (T, error)) {
	q, err := parseStatisticsQuery(parseQuery(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := run(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, message, report)
}

// Revenue godoc
// @Summary      Total revenue of rentals inside a window
// @Tags         statistics
// @Produce      json
// @Param        StartDate  query  string  true   "Window start"
// @Param        EndDate    query  string  true   "Window end"
// @Success      200  {object}  models.Response[models.RevenueReport]
// @Failure      400  {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/statistics/revenue [get]
func (h *StatisticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "Total revenue calculated successfully", h.svc.Revenue)
}

// Utilization godoc
// @Summary      Per-car utilization inside a window
// @Tags         statistics
// @Produce      json
// @Param        StartDate  query  string  true   "Window start"
// @Param        EndDate    query  string  true   "Window end"
// @Success      200  {object}  models.Response[[]models.CarUtilization]
// @Security     BearerAuth
// @Router       /api/statistics/utilization [get]
func (h *StatisticsHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "Car utilization calculated", h.svc.Utilization)
}

// PopularModels godoc
// @Summary      Five most rented models inside a window
// @Tags         statistics
// @Produce      json
// @Param        StartDate  query  string  true   "Window start"
// @Param        EndDate    query  string  true   "Window end"
// @Success      200  {object}  models.Response[[]models.PopularModel]
// @Security     BearerAuth
// @Router       /api/statistics/popular-models [get]
func (h *StatisticsHandler) PopularModels(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "Top 5 popular models calculated", h.svc.PopularModels)
}

// CustomerActivity godoc
// @Summary      Rental counts per customer inside a window
// @Tags         statistics
// @Produce      json
// @Param        StartDate  query  string  true   "Window start"
// @Param        EndDate    query  string  true   "Window end"
// @Success      200  {object}  models.Response[[]models.CustomerActivity]
// @Security     BearerAuth
// @Router       /api/statistics/customer-activity [get]
func (h *StatisticsHandler) CustomerActivity(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, "Customer activity calculated", h.svc.CustomerActivity)
}
