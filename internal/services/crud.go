package services

import (
	"context"

	"fleetmaster/internal/pagination"
)

// CRUDService is implemented by every fleet entity service. C and U are the
// create and update inputs, G the returned shape and F the list filter.
type CRUDService[C, U, G, F any] interface {
	GetAll(ctx context.Context, filter F) (pagination.Page[G], error)
	GetByID(ctx context.Context, id int) (*G, error)
	Add(ctx context.Context, input C) (*G, error)
	Update(ctx context.Context, id int, input U) (*G, error)
	Delete(ctx context.Context, id int) error
}
