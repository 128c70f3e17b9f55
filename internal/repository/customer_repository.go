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

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, full_name, phone, email, identity_user_id`

func scanCustomer(row rowScanner) (models.Customer, error) {
	var c models.Customer
	var identityUserID sql.NullString
	err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &identityUserID)
	c.IdentityUserID = identityUserID.String
	return c, err
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *customerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		logger.Error("Error listing customers", "error", err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		logger.Error("Error getting customer", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) GetByIdentityUserID(ctx context.Context, userID string) (*models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE identity_user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get customer by user: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) Add(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (full_name, phone, email, identity_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		customer.FullName,
		customer.Phone,
		customer.Email,
		nullableString(customer.IdentityUserID),
	).Scan(&customer.ID)
	if err != nil {
		logger.Error("Error creating customer", "error", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update overwrites the contact fields; the identity link is not editable here.
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `UPDATE customers SET full_name = $1, phone = $2, email = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, customer.FullName, customer.Phone, customer.Email, customer.ID)
	if err != nil {
		logger.Error("Error updating customer", "id", customer.ID, "error", err)
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return expectAffected(result)
}

func (r *customerRepository) Delete(ctx context.Context, id int) error {
	var rentalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rentals WHERE customer_id = $1`, id).Scan(&rentalCount); err != nil {
		logger.Error("Error checking customer references", "id", id, "error", err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if rentalCount > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "customer",
			References: map[string]int64{"rentals": rentalCount},
		}
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		logger.Error("Error deleting customer", "id", id, "error", err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return expectAffected(result)
}
