package utils

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrEndBeforeStart = errors.New("end date must not be before start date")

const day = 24 * time.Hour

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RentalDays returns the number of whole calendar days between start and end.
// Times of day are ignored.
func RentalDays(start, end time.Time) int {
	return int(truncateToDate(end).Sub(truncateToDate(start)) / day)
}

// EndBeforeStart compares calendar dates only, so a same-day rental is valid
// whatever its times of day.
func EndBeforeStart(start, end time.Time) bool {
	return truncateToDate(end).Before(truncateToDate(start))
}

// RentalCost prices a rental as whole days times the daily rate.
func RentalCost(start, end time.Time, pricePerDay decimal.Decimal) (decimal.Decimal, error) {
	if EndBeforeStart(start, end) {
		return decimal.Zero, ErrEndBeforeStart
	}
	days := RentalDays(start, end)
	return pricePerDay.Mul(decimal.NewFromInt(int64(days))), nil
}
