package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetmaster/internal/models"
)

func newStatisticsFixture(t *testing.T) *StatisticsService {
	t.Helper()
	ctx := context.Background()
	cars := newMemCars()
	customers := newMemCustomers()
	rentals := newMemRentals()

	require.NoError(t, cars.Add(ctx, &models.Car{Model: "Civic", Manufacturer: "Honda", PricePerDay: decimal.NewFromInt(50)}))
	require.NoError(t, cars.Add(ctx, &models.Car{Model: "Corolla", Manufacturer: "Toyota", PricePerDay: decimal.NewFromInt(40)}))
	require.NoError(t, customers.Add(ctx, &models.Customer{FullName: "Jane Doe"}))
	require.NoError(t, customers.Add(ctx, &models.Customer{FullName: "John Roe"}))

	for _, r := range []models.Rental{
		{CarID: 1, CustomerID: 1, StartDate: date(2024, 4, 1), EndDate: date(2024, 5, 1), TotalCost: decimal.NewFromInt(1500)},
		{CarID: 2, CustomerID: 2, StartDate: date(2024, 4, 10), EndDate: date(2024, 4, 12), TotalCost: decimal.NewFromInt(80)},
		{CarID: 2, CustomerID: 2, StartDate: date(2024, 3, 28), EndDate: date(2024, 4, 2), TotalCost: decimal.NewFromInt(200)},
	} {
		r := r
		require.NoError(t, rentals.Add(ctx, &r))
	}
	return NewStatisticsService(cars, customers, rentals)
}

func april() models.StatisticsQuery {
	start, end := date(2024, 4, 1), date(2024, 5, 1)
	return models.StatisticsQuery{StartDate: &start, EndDate: &end}
}

func TestStatisticsRequiresWindow(t *testing.T) {
	svc := newStatisticsFixture(t)
	_, err := svc.Revenue(context.Background(), models.StatisticsQuery{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "StartDate and EndDate are required", verr.Message)

	start := date(2024, 4, 1)
	_, err = svc.Revenue(context.Background(), models.StatisticsQuery{StartDate: &start})
	assert.ErrorAs(t, err, &verr)
}

func TestStatisticsRevenue(t *testing.T) {
	svc := newStatisticsFixture(t)
	report, err := svc.Revenue(context.Background(), april())
	require.NoError(t, err)
	assert.Equal(t, "1580", report.TotalRevenue.String())
}

func TestStatisticsRejectsMissingBoundOnEveryReport(t *testing.T) {
	svc := newStatisticsFixture(t)
	ctx := context.Background()
	end := date(2024, 5, 1)
	onlyEnd := models.StatisticsQuery{EndDate: &end}

	reports := map[string]func() error{
		"revenue":     func() error { _, err := svc.Revenue(ctx, onlyEnd); return err },
		"utilization": func() error { _, err := svc.Utilization(ctx, onlyEnd); return err },
		"popular":     func() error { _, err := svc.PopularModels(ctx, onlyEnd); return err },
		"activity":    func() error { _, err := svc.CustomerActivity(ctx, models.StatisticsQuery{}); return err },
	}
	for name, run := range reports {
		var verr *ValidationError
		require.ErrorAs(t, run(), &verr, name)
		assert.Equal(t, "StartDate and EndDate are required", verr.Message, name)
	}
}

func TestStatisticsUtilization(t *testing.T) {
	svc := newStatisticsFixture(t)
	report, err := svc.Utilization(context.Background(), april())
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "100", report[0].UtilizationPercentage.String())
	// 2 days inside plus 1 day of the rental that started in March.
	assert.Equal(t, "10", report[1].UtilizationPercentage.String())

	start, end := date(2024, 4, 1), date(2024, 4, 1)
	_, err = svc.Utilization(context.Background(), models.StatisticsQuery{StartDate: &start, EndDate: &end})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid date range", verr.Message)
}

func TestStatisticsPopularModelsAndActivity(t *testing.T) {
	svc := newStatisticsFixture(t)
	popular, err := svc.PopularModels(context.Background(), april())
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Civic", popular[0].Model)
	assert.Equal(t, 1, popular[0].RentalCount)

	activity, err := svc.CustomerActivity(context.Background(), april())
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "Jane Doe", activity[0].FullName)
	assert.Equal(t, 1, activity[1].RentalCount)
}
