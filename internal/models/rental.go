package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rental is a booking of one car by one customer at one branch.
// PricePerDay is the car's rate when the rental was last priced. It is stored
// with the rental so TotalCost stays explainable after the car is repriced.
type Rental struct {
	ID          int             `json:"id" db:"id"`
	CarID       int             `json:"carId" db:"car_id"`
	CustomerID  int             `json:"customerId" db:"customer_id"`
	BranchID    int             `json:"branchId" db:"branch_id"`
	StartDate   time.Time       `json:"startDate" db:"start_date"`
	EndDate     time.Time       `json:"endDate" db:"end_date"`
	TotalCost   decimal.Decimal `json:"totalCost" db:"total_cost"`
	PricePerDay decimal.Decimal `json:"pricePerDay" db:"price_per_day"`
}

type CreateRentalRequest struct {
	CarID      int       `json:"carId" validate:"required,gt=0"`
	CustomerID int       `json:"customerId" validate:"required,gt=0"`
	BranchID   int       `json:"branchId" validate:"required,gt=0"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required"`
}

type UpdateRentalRequest struct {
	CarID      int       `json:"carId" validate:"required,gt=0"`
	CustomerID int       `json:"customerId" validate:"required,gt=0"`
	BranchID   int       `json:"branchId" validate:"required,gt=0"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required"`
}
