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

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) interfaces.CarRepository {
	return &carRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (models.Car, error) {
	var c models.Car
	var imageURL sql.NullString
	err := row.Scan(
		&c.ID,
		&c.BranchID,
		&c.Model,
		&c.Manufacturer,
		&c.Year,
		&c.PricePerDay,
		&imageURL,
	)
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	return c, err
}

func (r *carRepository) GetAll(ctx context.Context) ([]models.Car, error) {
	query := `
		SELECT id, branch_id, model, manufacturer, year, price_per_day, image_url
		FROM cars
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Error listing cars", "error", err)
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}

	return cars, nil
}

func (r *carRepository) GetByID(ctx context.Context, id int) (*models.Car, error) {
	query := `
		SELECT id, branch_id, model, manufacturer, year, price_per_day, image_url
		FROM cars
		WHERE id = $1
	`

	c, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		logger.Error("Error getting car", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	return &c, nil
}

func (r *carRepository) Add(ctx context.Context, car *models.Car) error {
	query := `
		INSERT INTO cars (branch_id, model, manufacturer, year, price_per_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		car.BranchID,
		car.Model,
		car.Manufacturer,
		car.Year,
		car.PricePerDay,
	).Scan(&car.ID)
	if err != nil {
		logger.Error("Error creating car", "error", err)
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

func (r *carRepository) Update(ctx context.Context, car *models.Car) error {
	query := `
		UPDATE cars
		SET branch_id = $1, model = $2, manufacturer = $3, year = $4, price_per_day = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		car.BranchID,
		car.Model,
		car.Manufacturer,
		car.Year,
		car.PricePerDay,
		car.ID,
	)
	if err != nil {
		logger.Error("Error updating car", "id", car.ID, "error", err)
		return fmt.Errorf("failed to update car: %w", err)
	}
	return expectAffected(result)
}

func (r *carRepository) SetImageURL(ctx context.Context, id int, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE cars SET image_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		logger.Error("Error setting car image", "id", id, "error", err)
		return fmt.Errorf("failed to set car image: %w", err)
	}
	return expectAffected(result)
}

func (r *carRepository) Delete(ctx context.Context, id int) error {
	var rentalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rentals WHERE car_id = $1`, id).Scan(&rentalCount); err != nil {
		logger.Error("Error checking car references", "id", id, "error", err)
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if rentalCount > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "car",
			References: map[string]int64{"rentals": rentalCount},
		}
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		logger.Error("Error deleting car", "id", id, "error", err)
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return expectAffected(result)
}
