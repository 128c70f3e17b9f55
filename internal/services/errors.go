package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fleetmaster/internal/interfaces"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("something went wrong")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("too many requests")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(resource string) error { return &NotFoundError{Resource: resource} }

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness clash such as a taken username.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// classifyWriteError turns driver errors from an insert or update into the
// service error taxonomy.
func classifyWriteError(resource string, err error) error {
	var blocked *interfaces.DeletionBlockedError
	if errors.As(err, &blocked) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return invalid("%s references a record that does not exist", resource)
		case pqUniqueViolation:
			return &ConflictError{Message: resource + " already exists"}
		}
	}
	return internal(err)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
