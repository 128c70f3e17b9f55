package filters

import (
	"time"

	"fleetmaster/internal/models"
	"fleetmaster/internal/pagination"
)

type BranchFilter struct {
	pagination.Params
	Name     string
	Location string
}

func (f BranchFilter) Apply(items []models.Branch) []models.Branch {
	items = ContainsFold(items, f.Name, func(b models.Branch) string { return b.Name })
	items = ContainsFold(items, f.Location, func(b models.Branch) string { return b.Location })
	return items
}

type CarFilter struct {
	pagination.Params
	Model        string
	Manufacturer string
	YearFrom     *int
	YearTo       *int
}

func (f CarFilter) Apply(items []models.Car) []models.Car {
	items = ContainsFold(items, f.Model, func(c models.Car) string { return c.Model })
	items = ContainsFold(items, f.Manufacturer, func(c models.Car) string { return c.Manufacturer })
	items = AtLeast(items, f.YearFrom, func(c models.Car) int { return c.Year })
	items = AtMost(items, f.YearTo, func(c models.Car) int { return c.Year })
	return items
}

type CustomerFilter struct {
	pagination.Params
	FullName string
	Phone    string
	Email    string
}

func (f CustomerFilter) Apply(items []models.Customer) []models.Customer {
	items = ContainsFold(items, f.FullName, func(c models.Customer) string { return c.FullName })
	items = ContainsFold(items, f.Phone, func(c models.Customer) string { return c.Phone })
	items = ContainsFold(items, f.Email, func(c models.Customer) string { return c.Email })
	return items
}

type RentalFilter struct {
	pagination.Params
	CarID         *int
	CustomerID    *int
	StartDateFrom *time.Time
	StartDateTo   *time.Time
	EndDateFrom   *time.Time
	EndDateTo     *time.Time
}

func (f RentalFilter) Apply(items []models.Rental) []models.Rental {
	startDate := func(r models.Rental) time.Time { return r.StartDate }
	endDate := func(r models.Rental) time.Time { return r.EndDate }

	items = Equal(items, f.CarID, func(r models.Rental) int { return r.CarID })
	items = Equal(items, f.CustomerID, func(r models.Rental) int { return r.CustomerID })
	items = From(items, f.StartDateFrom, startDate)
	items = To(items, f.StartDateTo, startDate)
	items = From(items, f.EndDateFrom, endDate)
	items = To(items, f.EndDateTo, endDate)
	return items
}
