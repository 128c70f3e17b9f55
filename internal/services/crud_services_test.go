package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetmaster/internal/filters"
	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBranchGetByIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewBranchService(newMemBranches())
	created, err := svc.Add(ctx, models.CreateBranchRequest{Name: "Central", Location: "Downtown"})
	require.NoError(t, err)

	first, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBranchNotFound(t *testing.T) {
	svc := NewBranchService(newMemBranches())

	_, err := svc.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Branch not found", err.Error())

	_, err = svc.Update(context.Background(), 42, models.UpdateBranchRequest{Name: "x", Location: "y"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBranchDeleteBlocked(t *testing.T) {
	repo := newMemBranches()
	repo.deleteErr = &interfaces.DeletionBlockedError{Resource: "Branch", References: map[string]int64{"cars": 2}}
	svc := NewBranchService(repo)

	err := svc.Delete(context.Background(), 1)
	var blocked *interfaces.DeletionBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, int64(2), blocked.References["cars"])
}

func TestBranchGetAllPaginatesFilteredItems(t *testing.T) {
	ctx := context.Background()
	svc := NewBranchService(newMemBranches())
	for i := 0; i < 25; i++ {
		_, err := svc.Add(ctx, models.CreateBranchRequest{Name: fmt.Sprintf("Branch %02d", i), Location: "City"})
		require.NoError(t, err)
	}

	page, err := svc.GetAll(ctx, filters.BranchFilter{Params: pagination.Params{PageNumber: 2, PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, 25, page.TotalRecords)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 10)
	assert.Equal(t, "Branch 10", page.Items[0].Name)
	assert.Equal(t, "Branch 19", page.Items[9].Name)

	page, err = svc.GetAll(ctx, filters.BranchFilter{Name: "branch 2", Params: pagination.Params{PageNumber: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalRecords)
}

func TestCarRejectsNegativePrice(t *testing.T) {
	svc := NewCarService(newMemCars(), nil)
	_, err := svc.Add(context.Background(), models.CreateCarRequest{
		BranchID: 1, Model: "Civic", Manufacturer: "Honda", Year: 2022,
		PricePerDay: decimal.NewFromInt(-1),
	})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCarSetImage(t *testing.T) {
	ctx := context.Background()
	store := &memImageStore{}
	svc := NewCarService(newMemCars(), store)
	car, err := svc.Add(ctx, models.CreateCarRequest{
		BranchID: 1, Model: "Civic", Manufacturer: "Honda", Year: 2022,
		PricePerDay: decimal.RequireFromString("49.99"),
	})
	require.NoError(t, err)

	updated, err := svc.SetImage(ctx, car.ID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], fmt.Sprintf("cars/%d/", car.ID)))
	assert.True(t, strings.HasSuffix(*updated.ImageURL, ".png"))

	_, err = svc.SetImage(ctx, car.ID, "application/pdf", strings.NewReader("pdf"))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.SetImage(ctx, 999, "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrNotFound)
}

// Central/Downtown branch, a Civic at 49.99 and a four day rental.
func TestRentalScenarioComputesCost(t *testing.T) {
	ctx := context.Background()
	branches := NewBranchService(newMemBranches())
	carRepo := newMemCars()
	cars := NewCarService(carRepo, nil)
	customers := NewCustomerService(newMemCustomers())
	rentals := NewRentalService(newMemRentals(), carRepo)

	branch, err := branches.Add(ctx, models.CreateBranchRequest{Name: "Central", Location: "Downtown"})
	require.NoError(t, err)
	car, err := cars.Add(ctx, models.CreateCarRequest{
		BranchID: branch.ID, Model: "Civic", Manufacturer: "Honda", Year: 2022,
		PricePerDay: decimal.RequireFromString("49.99"),
	})
	require.NoError(t, err)
	customer, err := customers.Add(ctx, models.CreateCustomerRequest{FullName: "Jane Doe", Phone: "555", Email: "jane@example.com"})
	require.NoError(t, err)

	rental, err := rentals.Add(ctx, models.CreateRentalRequest{
		CarID: car.ID, CustomerID: customer.ID, BranchID: branch.ID,
		StartDate: date(2024, 3, 1), EndDate: date(2024, 3, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, "199.96", rental.TotalCost.StringFixed(2))
	assert.Equal(t, "49.99", rental.PricePerDay.String())

	updated, err := rentals.Update(ctx, rental.ID, models.UpdateRentalRequest{
		CarID: car.ID, CustomerID: customer.ID, BranchID: branch.ID,
		StartDate: date(2024, 3, 1), EndDate: date(2024, 3, 11),
	})
	require.NoError(t, err)
	assert.Equal(t, "499.9", updated.TotalCost.String())

	// Repricing the car leaves the rate the rental was priced at.
	_, err = cars.Update(ctx, car.ID, models.UpdateCarRequest{
		BranchID: branch.ID, Model: "Civic", Manufacturer: "Honda", Year: 2022,
		PricePerDay: decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	stored, err := rentals.GetByID(ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, "49.99", stored.PricePerDay.String())
	assert.Equal(t, "499.9", stored.TotalCost.String())
}

func TestRentalValidation(t *testing.T) {
	ctx := context.Background()
	carRepo := newMemCars()
	require.NoError(t, carRepo.Add(ctx, &models.Car{BranchID: 1, Model: "Civic", PricePerDay: decimal.NewFromInt(50)}))
	svc := NewRentalService(newMemRentals(), carRepo)

	_, err := svc.Add(ctx, models.CreateRentalRequest{
		CarID: 1, CustomerID: 1, BranchID: 1,
		StartDate: date(2024, 1, 10), EndDate: date(2024, 1, 1),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Add(ctx, models.CreateRentalRequest{
		CarID: 7, CustomerID: 1, BranchID: 1,
		StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 2),
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Car not found", verr.Message)

	_, err = svc.Update(ctx, 99, models.UpdateRentalRequest{
		CarID: 1, CustomerID: 1, BranchID: 1,
		StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 2),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRentalSameDayCostsNothing(t *testing.T) {
	ctx := context.Background()
	carRepo := newMemCars()
	require.NoError(t, carRepo.Add(ctx, &models.Car{PricePerDay: decimal.NewFromInt(50)}))
	svc := NewRentalService(newMemRentals(), carRepo)

	rental, err := svc.Add(ctx, models.CreateRentalRequest{
		CarID: 1, CustomerID: 1, BranchID: 1,
		StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 1).Add(8 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, rental.TotalCost.IsZero())

	// Same calendar day with the end time earlier than the start time.
	rental, err = svc.Add(ctx, models.CreateRentalRequest{
		CarID: 1, CustomerID: 1, BranchID: 1,
		StartDate: date(2024, 1, 2).Add(17 * time.Hour), EndDate: date(2024, 1, 2).Add(9 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, rental.TotalCost.IsZero())
}

func TestClassifyWriteError(t *testing.T) {
	err := classifyWriteError("Car", fmt.Errorf("insert: %w", &pq.Error{Code: pqForeignKeyViolation}))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Car references a record that does not exist", verr.Message)

	err = classifyWriteError("Car", &pq.Error{Code: pqUniqueViolation})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	err = classifyWriteError("Car", errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrInternal)
}
