package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestBranchGetAll(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, location\s+FROM branches\s+ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}).
			AddRow(1, "Central", "Downtown").
			AddRow(2, "Airport", "Terminal 2"))

	branches, err := NewBranchRepository(db).GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(branches) != 2 || branches[1].Name != "Airport" {
		t.Fatalf("unexpected branches %+v", branches)
	}
}

func TestBranchGetAllEmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM branches`).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}))

	branches, err := NewBranchRepository(db).GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if branches == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestBranchGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM branches\s+WHERE id = \$1`).WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}))

	_, err := NewBranchRepository(db).GetByID(context.Background(), 42)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestBranchAddReturnsID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO branches`).WithArgs("Central", "Downtown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	b := &models.Branch{Name: "Central", Location: "Downtown"}
	if err := NewBranchRepository(db).Add(context.Background(), b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID != 7 {
		t.Fatalf("expected id 7, got %d", b.ID)
	}
}

func TestBranchUpdateNoRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`UPDATE branches SET name = \$1, location = \$2 WHERE id = \$3`).
		WithArgs("Central", "Uptown", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewBranchRepository(db).Update(context.Background(), &models.Branch{ID: 3, Name: "Central", Location: "Uptown"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestBranchDeleteBlockedByCars(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cars WHERE branch_id = \$1`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"cars", "rentals"}).AddRow(2, 5))

	err := NewBranchRepository(db).Delete(context.Background(), 1)
	var blocked *interfaces.DeletionBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected DeletionBlockedError, got %v", err)
	}
	if blocked.References["cars"] != 2 || blocked.References["rentals"] != 5 {
		t.Fatalf("unexpected references %+v", blocked.References)
	}
}

func TestBranchDeleteUnreferenced(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM cars WHERE branch_id`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"cars", "rentals"}).AddRow(0, 0))
	mock.ExpectExec(`DELETE FROM branches WHERE id = \$1`).WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewBranchRepository(db).Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
