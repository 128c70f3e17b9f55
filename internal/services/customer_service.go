package services

import (
	"context"
	"log/slog"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
)

type CustomerService struct {
	repo interfaces.CustomerRepository
	log  *slog.Logger
}

var _ CRUDService[models.CreateCustomerRequest, models.UpdateCustomerRequest, models.Customer, filters.CustomerFilter] = (*CustomerService)(nil)

func NewCustomerService(repo interfaces.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo, log: logger.WithService("customer")}
}

func (s *CustomerService) GetAll(ctx context.Context, filter filters.CustomerFilter) (pagination.Page[models.Customer], error) {
	customers, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load customers", "error", err)
		return pagination.Page[models.Customer]{}, internal(err)
	}
	return pagination.Paginate(filter.Apply(customers), filter.Params), nil
}

func (s *CustomerService) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("Customer")
		}
		return nil, internal(err)
	}
	return customer, nil
}

func (s *CustomerService) Add(ctx context.Context, input models.CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		FullName: input.FullName,
		Phone:    input.Phone,
		Email:    input.Email,
	}
	if err := s.repo.Add(ctx, customer); err != nil {
		s.log.ErrorContext(ctx, "failed to create customer", "error", err)
		return nil, classifyWriteError("Customer", err)
	}
	s.log.InfoContext(ctx, "customer created", "id", customer.ID)
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id int, input models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FullName = input.FullName
	customer.Phone = input.Phone
	customer.Email = input.Email
	if err := s.repo.Update(ctx, customer); err != nil {
		s.log.ErrorContext(ctx, "failed to update customer", "id", id, "error", err)
		return nil, classifyWriteError("Customer", err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.log, "Customer", id, s.repo.Delete)
}
