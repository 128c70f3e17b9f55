package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type CarService struct {
	repo   interfaces.CarRepository
	images ImageStore
	log    *slog.Logger
}

var _ CRUDService[models.CreateCarRequest, models.UpdateCarRequest, models.Car, filters.CarFilter] = (*CarService)(nil)

// NewCarService builds the car service. images may be nil when photo storage
// is not configured.
func NewCarService(repo interfaces.CarRepository, images ImageStore) *CarService {
	return &CarService{repo: repo, images: images, log: logger.WithService("car")}
}

func (s *CarService) GetAll(ctx context.Context, filter filters.CarFilter) (pagination.Page[models.Car], error) {
	cars, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load cars", "error", err)
		return pagination.Page[models.Car]{}, internal(err)
	}
	return pagination.Paginate(filter.Apply(cars), filter.Params), nil
}

func (s *CarService) GetByID(ctx context.Context, id int) (*models.Car, error) {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("Car")
		}
		return nil, internal(err)
	}
	return car, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("pricePerDay must not be negative")
	}
	return nil
}

func (s *CarService) Add(ctx context.Context, input models.CreateCarRequest) (*models.Car, error) {
	if err := validatePrice(input.PricePerDay); err != nil {
		return nil, err
	}

	car := &models.Car{
		BranchID:     input.BranchID,
		Model:        input.Model,
		Manufacturer: input.Manufacturer,
		Year:         input.Year,
		PricePerDay:  input.PricePerDay.Round(2),
	}
	if err := s.repo.Add(ctx, car); err != nil {
		s.log.ErrorContext(ctx, "failed to create car", "error", err)
		return nil, classifyWriteError("Car", err)
	}
	s.log.InfoContext(ctx, "car created", "id", car.ID, "branch_id", car.BranchID)
	return car, nil
}

func (s *CarService) Update(ctx context.Context, id int, input models.UpdateCarRequest) (*models.Car, error) {
	if err := validatePrice(input.PricePerDay); err != nil {
		return nil, err
	}

	car, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car.BranchID = input.BranchID
	car.Model = input.Model
	car.Manufacturer = input.Manufacturer
	car.Year = input.Year
	car.PricePerDay = input.PricePerDay.Round(2)
	if err := s.repo.Update(ctx, car); err != nil {
		s.log.ErrorContext(ctx, "failed to update car", "id", id, "error", err)
		return nil, classifyWriteError("Car", err)
	}
	return car, nil
}

func (s *CarService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.log, "Car", id, s.repo.Delete)
}

// SetImage stores a photo of the car and records its public URL.
func (s *CarService) SetImage(ctx context.Context, id int, contentType string, body io.Reader) (*models.Car, error) {
	if s.images == nil {
		return nil, internal(errors.New("image storage is not configured"))
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, invalid("unsupported image type %q", contentType)
	}

	car, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("cars", fmt.Sprint(car.ID), uuid.NewString()+ext)
	url, err := s.images.Upload(ctx, key, body, contentType)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to upload car image", "id", id, "error", err)
		return nil, internal(err)
	}

	if err := s.repo.SetImageURL(ctx, car.ID, url); err != nil {
		if isNoRows(err) {
			return nil, notFound("Car")
		}
		return nil, internal(err)
	}
	car.ImageURL = &url
	return car, nil
}
