package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatisticsQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type RevenueReport struct {
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type CarUtilization struct {
	CarID                 int             `json:"carId"`
	Model                 string          `json:"model"`
	Manufacturer          string          `json:"manufacturer"`
	RentedDays            decimal.Decimal `json:"rentedDays"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
}

type PopularModel struct {
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	RentalCount  int    `json:"rentalCount"`
}

type CustomerActivity struct {
	CustomerID  int    `json:"customerId"`
	FullName    string `json:"fullName"`
	RentalCount int    `json:"rentalCount"`
}
