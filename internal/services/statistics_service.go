package services

import (
	"context"
	"errors"
	"log/slog"

	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/statistics"
)

// StatisticsService reports over an explicit StartDate/EndDate window. Both
// bounds are mandatory for every report.
type StatisticsService struct {
	cars      interfaces.CarRepository
	customers interfaces.CustomerRepository
	rentals   interfaces.RentalRepository
	log       *slog.Logger
}

func NewStatisticsService(cars interfaces.CarRepository, customers interfaces.CustomerRepository, rentals interfaces.RentalRepository) *StatisticsService {
	return &StatisticsService{
		cars:      cars,
		customers: customers,
		rentals:   rentals,
		log:       logger.WithService("statistics"),
	}
}

func resolveWindow(q models.StatisticsQuery) (statistics.Window, error) {
	w, err := statistics.NewWindow(q.StartDate, q.EndDate)
	if err != nil {
		return statistics.Window{}, invalid("StartDate and EndDate are required")
	}
	return w, nil
}

func (s *StatisticsService) Revenue(ctx context.Context, q models.StatisticsQuery) (*models.RevenueReport, error) {
	w, err := resolveWindow(q)
	if err != nil {
		return nil, err
	}
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load rentals", "error", err)
		return nil, internal(err)
	}
	return &models.RevenueReport{
		StartDate:    w.Start,
		EndDate:      w.End,
		TotalRevenue: statistics.TotalRevenue(rentals, w),
	}, nil
}

func (s *StatisticsService) Utilization(ctx context.Context, q models.StatisticsQuery) ([]models.CarUtilization, error) {
	w, err := resolveWindow(q)
	if err != nil {
		return nil, err
	}
	cars, err := s.cars.GetAll(ctx)
	if err != nil {
		return nil, internal(err)
	}
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, internal(err)
	}

	report, err := statistics.CarUtilization(cars, rentals, w)
	if err != nil {
		if errors.Is(err, statistics.ErrInvalidRange) {
			return nil, invalid("Invalid date range")
		}
		return nil, internal(err)
	}
	return report, nil
}

func (s *StatisticsService) PopularModels(ctx context.Context, q models.StatisticsQuery) ([]models.PopularModel, error) {
	w, err := resolveWindow(q)
	if err != nil {
		return nil, err
	}
	cars, err := s.cars.GetAll(ctx)
	if err != nil {
		return nil, internal(err)
	}
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, internal(err)
	}

	byID := make(map[int]models.Car, len(cars))
	for _, c := range cars {
		byID[c.ID] = c
	}
	return statistics.TopModels(rentals, byID, w, statistics.TopModelsLimit), nil
}

func (s *StatisticsService) CustomerActivity(ctx context.Context, q models.StatisticsQuery) ([]models.CustomerActivity, error) {
	w, err := resolveWindow(q)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return nil, internal(err)
	}
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, internal(err)
	}

	byID := make(map[int]models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}
	return statistics.CustomerActivity(rentals, byID, w), nil
}
