package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fleetmaster/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// CreateWithCustomer inserts the user and its customer profile atomically.
	CreateWithCustomer(ctx context.Context, user *models.User, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userSelect = `
	SELECT id, user_name, email, COALESCE(phone_number, ''), password_hash, roles, created_at
	FROM users
`

func (r *userRepository) CreateWithCustomer(ctx context.Context, user *models.User, customer *models.Customer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, user_name, email, phone_number, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`,
		user.ID,
		user.UserName,
		user.Email,
		nullableString(user.PhoneNumber),
		user.PasswordHash,
		pq.Array(user.Roles),
		user.CreatedAt,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	customer.IdentityUserID = user.ID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO customers (full_name, phone, email, identity_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, customer.FullName, customer.Phone, customer.Email, customer.IdentityUserID).Scan(&customer.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer for user: %w", err)
	}

	return tx.Commit()
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, userSelect+where, arg).Scan(
		&u.ID,
		&u.UserName,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		pq.Array(&u.Roles),
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.getOne(ctx, `WHERE LOWER(user_name) = LOWER($1)`, userName)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
