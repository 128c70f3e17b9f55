package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) interfaces.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalSelect = `
	SELECT r.id, r.car_id, r.customer_id, r.branch_id, r.start_date, r.end_date, r.total_cost, r.price_per_day
	FROM rentals r
`

func scanRental(row rowScanner) (models.Rental, error) {
	var rt models.Rental
	err := row.Scan(
		&rt.ID,
		&rt.CarID,
		&rt.CustomerID,
		&rt.BranchID,
		&rt.StartDate,
		&rt.EndDate,
		&rt.TotalCost,
		&rt.PricePerDay,
	)
	return rt, err
}

func (r *rentalRepository) GetAll(ctx context.Context) ([]models.Rental, error) {
	rows, err := r.db.QueryContext(ctx, rentalSelect+` ORDER BY r.id`)
	if err != nil {
		logger.Error("Error listing rentals", "error", err)
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	defer rows.Close()

	rentals := []models.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, rt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rentals: %w", err)
	}

	return rentals, nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int) (*models.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, rentalSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		logger.Error("Error getting rental", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	return &rt, nil
}

func (r *rentalRepository) Add(ctx context.Context, rental *models.Rental) error {
	query := `
		INSERT INTO rentals (car_id, customer_id, branch_id, start_date, end_date, total_cost, price_per_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		rental.CarID,
		rental.CustomerID,
		rental.BranchID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalCost,
		rental.PricePerDay,
	).Scan(&rental.ID)
	if err != nil {
		logger.Error("Error creating rental", "error", err)
		return fmt.Errorf("failed to create rental: %w", err)
	}
	return nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *models.Rental) error {
	query := `
		UPDATE rentals
		SET car_id = $1, customer_id = $2, branch_id = $3, start_date = $4, end_date = $5,
			total_cost = $6, price_per_day = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		rental.CarID,
		rental.CustomerID,
		rental.BranchID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalCost,
		rental.PricePerDay,
		rental.ID,
	)
	if err != nil {
		logger.Error("Error updating rental", "id", rental.ID, "error", err)
		return fmt.Errorf("failed to update rental: %w", err)
	}
	return expectAffected(result)
}

func (r *rentalRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		logger.Error("Error deleting rental", "id", id, "error", err)
		return fmt.Errorf("failed to delete rental: %w", err)
	}
	return expectAffected(result)
}
