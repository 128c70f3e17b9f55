package repository

import (
	"database/sql"
	"fmt"
)

// expectAffected maps a write that touched no rows to sql.ErrNoRows.
func expectAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
