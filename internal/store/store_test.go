package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewWithDB(sqlx.NewDb(db, "sqlite"), "sqlite"), mock
}

func TestExecuteReturnsRows(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"State_Name", "Year", "Production_Tonnes"}).
		AddRow("BIHAR", 2010, 500.0).
		AddRow("PUNJAB", 2010, 320.5)

	mock.ExpectQuery(`SELECT State_Name, Year, Production_Tonnes FROM crop_production`).
		WillReturnRows(rows)

	result, err := store.Execute(ctx, "SELECT State_Name, Year, Production_Tonnes FROM crop_production")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.RowCount != 2 {
		t.Fatalf("Expected 2 rows, got %d", result.RowCount)
	}
	if result.Rows[0][0] != "BIHAR" {
		t.Errorf("Expected first row state 'BIHAR', got '%s'", result.Rows[0][0])
	}
	if len(result.Columns) != 3 {
		t.Errorf("Expected 3 columns, got %d", len(result.Columns))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestExecuteSurfacesDatabaseError(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM missing`).
		WillReturnError(fmt.Errorf("no such table: missing"))

	_, err := store.Execute(ctx, "SELECT * FROM missing")
	if err == nil {
		t.Fatal("Expected an error for a missing table")
	}
	if err.Error() != "no such table: missing" {
		t.Errorf("Expected driver error to pass through verbatim, got %q", err.Error())
	}
}

func TestExecuteEmptyResult(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT Year FROM rainfall WHERE Year > 3000`).
		WillReturnRows(sqlmock.NewRows([]string{"Year"}))

	result, err := store.Execute(ctx, "SELECT Year FROM rainfall WHERE Year > 3000")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.RowCount != 0 {
		t.Errorf("Expected 0 rows, got %d", result.RowCount)
	}
	if got := result.String(); got != "0 rows: []" {
		t.Errorf("Expected empty serialization, got %q", got)
	}
}

func TestExecuteNullValues(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT State_Name, Annual_Rainfall_mm FROM rainfall`).
		WillReturnRows(sqlmock.NewRows([]string{"State_Name", "Annual_Rainfall_mm"}).
			AddRow("BIHAR", nil))

	result, err := store.Execute(ctx, "SELECT State_Name, Annual_Rainfall_mm FROM rainfall")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Rows[0][1] != "NULL" {
		t.Errorf("Expected NULL rendering for nil value, got '%s'", result.Rows[0][1])
	}
}

func TestResultString(t *testing.T) {
	result := &Result{
		Columns:  []string{"State_Name", "Year", "Production_Tonnes"},
		Rows:     [][]string{{"BIHAR", "2010", "500"}},
		RowCount: 1,
	}

	want := "1 rows: [(BIHAR, 2010, 500)]"
	if got := result.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDescribeSQLite(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT name FROM sqlite_master`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("rainfall"))

	ddl := "CREATE TABLE rainfall (State_Name TEXT, District_Name TEXT, Year INTEGER, Annual_Rainfall_mm REAL)"
	mock.ExpectQuery(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = \$1`).
		WithArgs("rainfall").
		WillReturnRows(sqlmock.NewRows([]string{"sql"}).AddRow(ddl))

	mock.ExpectQuery(`SELECT \* FROM rainfall LIMIT 3`).
		WillReturnRows(sqlmock.NewRows([]string{"State_Name", "District_Name", "Year", "Annual_Rainfall_mm"}).
			AddRow("BIHAR", "PATNA", 2010, 1050.5))

	schema, err := store.Describe(ctx)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	for _, want := range []string{ddl, "3 rows from rainfall table:", "BIHAR\tPATNA\t2010\t1050.5"} {
		if !strings.Contains(schema, want) {
			t.Errorf("Schema description missing %q:\n%s", want, schema)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestDescribeNoTables(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT name FROM sqlite_master`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err := store.Describe(ctx)
	if err == nil {
		t.Fatal("Expected an error when no tables exist")
	}
}
