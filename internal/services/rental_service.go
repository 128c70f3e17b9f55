package services

import (
	"context"
	"errors"
	"log/slog"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
	"fleetmaster/internal/utils"
)

// RentalService prices rentals from the rented car's current daily rate.
type RentalService struct {
	rentals interfaces.RentalRepository
	cars    interfaces.CarRepository
	log     *slog.Logger
}

var _ CRUDService[models.CreateRentalRequest, models.UpdateRentalRequest, models.Rental, filters.RentalFilter] = (*RentalService)(nil)

func NewRentalService(rentals interfaces.RentalRepository, cars interfaces.CarRepository) *RentalService {
	return &RentalService{rentals: rentals, cars: cars, log: logger.WithService("rental")}
}

func (s *RentalService) GetAll(ctx context.Context, filter filters.RentalFilter) (pagination.Page[models.Rental], error) {
	rentals, err := s.rentals.GetAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load rentals", "error", err)
		return pagination.Page[models.Rental]{}, internal(err)
	}
	return pagination.Paginate(filter.Apply(rentals), filter.Params), nil
}

func (s *RentalService) GetByID(ctx context.Context, id int) (*models.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("Rental")
		}
		return nil, internal(err)
	}
	return rental, nil
}

// price fills TotalCost and PricePerDay from the car the rental points at.
func (s *RentalService) price(ctx context.Context, rental *models.Rental) error {
	if utils.EndBeforeStart(rental.StartDate, rental.EndDate) {
		return invalid("%s", utils.ErrEndBeforeStart.Error())
	}

	car, err := s.cars.GetByID(ctx, rental.CarID)
	if err != nil {
		if isNoRows(err) {
			return invalid("Car not found")
		}
		return internal(err)
	}

	cost, err := utils.RentalCost(rental.StartDate, rental.EndDate, car.PricePerDay)
	if err != nil {
		if errors.Is(err, utils.ErrEndBeforeStart) {
			return invalid("%s", err.Error())
		}
		return internal(err)
	}
	rental.TotalCost = cost
	rental.PricePerDay = car.PricePerDay
	return nil
}

func (s *RentalService) Add(ctx context.Context, input models.CreateRentalRequest) (*models.Rental, error) {
	rental := &models.Rental{
		CarID:      input.CarID,
		CustomerID: input.CustomerID,
		BranchID:   input.BranchID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	if err := s.price(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.rentals.Add(ctx, rental); err != nil {
		s.log.ErrorContext(ctx, "failed to create rental", "error", err)
		return nil, classifyWriteError("Rental", err)
	}
	s.log.InfoContext(ctx, "rental created", "id", rental.ID, "car_id", rental.CarID, "total_cost", rental.TotalCost.String())
	return rental, nil
}

func (s *RentalService) Update(ctx context.Context, id int, input models.UpdateRentalRequest) (*models.Rental, error) {
	rental, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rental.CarID = input.CarID
	rental.CustomerID = input.CustomerID
	rental.BranchID = input.BranchID
	rental.StartDate = input.StartDate
	rental.EndDate = input.EndDate
	if err := s.price(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.rentals.Update(ctx, rental); err != nil {
		s.log.ErrorContext(ctx, "failed to update rental", "id", id, "error", err)
		return nil, classifyWriteError("Rental", err)
	}
	return rental, nil
}

func (s *RentalService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.log, "Rental", id, s.rentals.Delete)
}
