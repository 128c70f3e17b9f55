package models

import "github.com/shopspring/decimal"

type Car struct {
	ID           int             `json:"id" db:"id"`
	BranchID     int             `json:"branchId" db:"branch_id"`
	Model        string          `json:"model" db:"model"`
	Manufacturer string          `json:"manufacturer" db:"manufacturer"`
	Year         int             `json:"year" db:"year"`
	PricePerDay  decimal.Decimal `json:"pricePerDay" db:"price_per_day"`
	ImageURL     *string         `json:"imageUrl,omitempty" db:"image_url"`
}

type CreateCarRequest struct {
	BranchID     int             `json:"branchId" validate:"required,gt=0"`
	Model        string          `json:"model" validate:"required,max=100"`
	Manufacturer string          `json:"manufacturer" validate:"required,max=100"`
	Year         int             `json:"year" validate:"required,gte=1886,lte=2100"`
	PricePerDay  decimal.Decimal `json:"pricePerDay"`
}

type UpdateCarRequest struct {
	BranchID     int             `json:"branchId" validate:"required,gt=0"`
	Model        string          `json:"model" validate:"required,max=100"`
	Manufacturer string          `json:"manufacturer" validate:"required,max=100"`
	Year         int             `json:"year" validate:"required,gte=1886,lte=2100"`
	PricePerDay  decimal.Decimal `json:"pricePerDay"`
}
