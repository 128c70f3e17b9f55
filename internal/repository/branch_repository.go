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

type branchRepository struct {
	db *sql.DB
}

func NewBranchRepository(db *sql.DB) interfaces.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) GetAll(ctx context.Context) ([]models.Branch, error) {
	query := `
		SELECT id, name, location
		FROM branches
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Error listing branches", "error", err)
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	branches := []models.Branch{}
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Location); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branches: %w", err)
	}

	return branches, nil
}

func (r *branchRepository) GetByID(ctx context.Context, id int) (*models.Branch, error) {
	query := `
		SELECT id, name, location
		FROM branches
		WHERE id = $1
	`

	var b models.Branch
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		logger.Error("Error getting branch", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}

	return &b, nil
}

func (r *branchRepository) Add(ctx context.Context, branch *models.Branch) error {
	query := `
		INSERT INTO branches (name, location)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := r.db.QueryRowContext(ctx, query, branch.Name, branch.Location).Scan(&branch.ID); err != nil {
		logger.Error("Error creating branch", "error", err)
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *branchRepository) Update(ctx context.Context, branch *models.Branch) error {
	query := `UPDATE branches SET name = $1, location = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, branch.Name, branch.Location, branch.ID)
	if err != nil {
		logger.Error("Error updating branch", "id", branch.ID, "error", err)
		return fmt.Errorf("failed to update branch: %w", err)
	}
	return expectAffected(result)
}

func (r *branchRepository) Delete(ctx context.Context, id int) error {
	var carCount, rentalCount int64
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM cars WHERE branch_id = $1),
			(SELECT COUNT(*) FROM rentals WHERE branch_id = $1)
	`, id).Scan(&carCount, &rentalCount)
	if err != nil {
		logger.Error("Error checking branch references", "id", id, "error", err)
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	if carCount > 0 || rentalCount > 0 {
		return &interfaces.DeletionBlockedError{
			Resource: "branch",
			References: map[string]int64{
				"cars":    carCount,
				"rentals": rentalCount,
			},
		}
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		logger.Error("Error deleting branch", "id", id, "error", err)
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return expectAffected(result)
}
