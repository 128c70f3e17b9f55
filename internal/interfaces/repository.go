package interfaces

import (
	"context"

	"fleetmaster/internal/models"
)

// Repository is the persistence contract shared by the fleet entities.
// GetByID returns sql.ErrNoRows when the id does not exist.
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int) (*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id int) error
}

type BranchRepository interface {
	Repository[models.Branch]
}

type CarRepository interface {
	Repository[models.Car]
	SetImageURL(ctx context.Context, id int, url string) error
}

type CustomerRepository interface {
	Repository[models.Customer]
	GetByIdentityUserID(ctx context.Context, userID string) (*models.Customer, error)
}

type RentalRepository interface {
	Repository[models.Rental]
}
