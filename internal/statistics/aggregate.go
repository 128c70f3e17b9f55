package statistics

import (
	"slices"

	"github.com/shopspring/decimal"

	"fleetmaster/internal/models"
)

// TopModelsLimit is how many car models the popularity report returns.
const TopModelsLimit = 5

var hundred = decimal.NewFromInt(100)

// TotalRevenue sums the cost of rentals fully contained in the window.
func TotalRevenue(rentals []models.Rental, w Window) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rentals {
		if w.Contains(r.StartDate, r.EndDate) {
			total = total.Add(r.TotalCost)
		}
	}
	return total
}

// CarUtilization reports, for every car, the share of the window during which
// it was rented. Partial overlaps count only the overlapping time.
func CarUtilization(cars []models.Car, rentals []models.Rental, w Window) ([]models.CarUtilization, error) {
	windowDays := w.Days()
	if windowDays <= 0 {
		return nil, ErrInvalidRange
	}

	byCar := make(map[int][]models.Rental, len(cars))
	for _, r := range rentals {
		byCar[r.CarID] = append(byCar[r.CarID], r)
	}

	out := make([]models.CarUtilization, 0, len(cars))
	for _, car := range cars {
		var rented float64
		for _, r := range byCar[car.ID] {
			rented += w.overlapDays(r.StartDate, r.EndDate)
		}
		out = append(out, models.CarUtilization{
			CarID:                 car.ID,
			Model:                 car.Model,
			Manufacturer:          car.Manufacturer,
			RentedDays:            decimal.NewFromFloat(rented).Round(2),
			UtilizationPercentage: decimal.NewFromFloat(rented / windowDays).Mul(hundred).Round(2),
		})
	}
	return out, nil
}

type modelKey struct {
	model        string
	manufacturer string
}

// TopModels ranks (model, manufacturer) pairs by the number of contained
// rentals. Ties keep the order in which the pairs were first seen.
func TopModels(rentals []models.Rental, cars map[int]models.Car, w Window, limit int) []models.PopularModel {
	counts := map[modelKey]int{}
	var order []modelKey
	for _, r := range rentals {
		if !w.Contains(r.StartDate, r.EndDate) {
			continue
		}
		car, ok := cars[r.CarID]
		if !ok {
			continue
		}
		key := modelKey{model: car.Model, manufacturer: car.Manufacturer}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]models.PopularModel, 0, len(order))
	for _, key := range order {
		out = append(out, models.PopularModel{
			Model:        key.model,
			Manufacturer: key.manufacturer,
			RentalCount:  counts[key],
		})
	}
	slices.SortStableFunc(out, func(a, b models.PopularModel) int {
		return b.RentalCount - a.RentalCount
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CustomerActivity counts contained rentals per customer, busiest first.
func CustomerActivity(rentals []models.Rental, customers map[int]models.Customer, w Window) []models.CustomerActivity {
	counts := map[int]int{}
	var order []int
	for _, r := range rentals {
		if !w.Contains(r.StartDate, r.EndDate) {
			continue
		}
		if _, seen := counts[r.CustomerID]; !seen {
			order = append(order, r.CustomerID)
		}
		counts[r.CustomerID]++
	}

	out := make([]models.CustomerActivity, 0, len(order))
	for _, id := range order {
		out = append(out, models.CustomerActivity{
			CustomerID:  id,
			FullName:    customers[id].FullName,
			RentalCount: counts[id],
		})
	}
	slices.SortStableFunc(out, func(a, b models.CustomerActivity) int {
		return b.RentalCount - a.RentalCount
	})
	return out
}
