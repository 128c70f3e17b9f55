package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetmaster/internal/models"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

type PasswordResetRepository interface {
	// Replace discards the unused codes issued to the token's email and stores
	// the new one. Concurrent calls for the same email are serialized.
	Replace(ctx context.Context, token *models.PasswordResetToken) error
	GetUnused(ctx context.Context, email string, code string) (*models.PasswordResetToken, error)
	// Redeem consumes the code and stores the user's new password hash in one
	// transaction. A code that is already used or expired yields
	// ErrResetTokenNotFound and leaves the password untouched.
	Redeem(ctx context.Context, tokenID, userID, passwordHash string, usedAt time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Replace(ctx context.Context, token *models.PasswordResetToken) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext(LOWER($1)))`, token.Email); err != nil {
		return fmt.Errorf("failed to lock reset tokens: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE LOWER(email) = LOWER($1) AND used = FALSE`,
		token.Email,
	); err != nil {
		return fmt.Errorf("failed to delete previous reset tokens: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO password_reset_tokens (id, email, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, token.ID, token.Email, token.Code, token.ExpiresAt, token.CreatedAt).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	return tx.Commit()
}

func (r *passwordResetRepository) GetUnused(ctx context.Context, email string, code string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, email, code, expires_at, used, used_at, created_at
		FROM password_reset_tokens
		WHERE LOWER(email) = LOWER($1)
		AND code = $2
		AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var t models.PasswordResetToken
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, email, code).Scan(&t.ID, &t.Email, &t.Code, &t.ExpiresAt, &t.Used, &usedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}
	return &t, nil
}

func (r *passwordResetRepository) Redeem(ctx context.Context, tokenID, userID, passwordHash string, usedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The conditional update is the claim: a concurrent redeemer blocks on the
	// row lock and then sees used = TRUE.
	res, err := tx.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = TRUE, used_at = $1 WHERE id = $2 AND used = FALSE AND expires_at > $1`,
		usedAt, tokenID,
	)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if err := requireOneRow(res, ErrResetTokenNotFound); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := requireOneRow(res, ErrUserNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func requireOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < $1 OR used = TRUE`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return res.RowsAffected()
}
