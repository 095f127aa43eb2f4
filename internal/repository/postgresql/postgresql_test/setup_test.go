package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
)

// TestDatabaseSetup wraps a connection to the integration database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{MaxConns: 10})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	t.Cleanup(setup.Close)

	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return setup
}

// TruncateAllTables removes every row the tests may have written
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"approval_actions",
		"reimbursements",
		"leave_requests",
		"timesheets",
		"punch_events",
		"employees",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedWorker inserts a user with the given role and a linked active employee.
// It returns the user id and the employee id.
func (t *TestDatabaseSetup) SeedWorker(ctx context.Context, code, role string) (string, string, error) {
	var userID, employeeID string
	err := t.DB.QueryRow(ctx,
		`INSERT INTO users (email, role) VALUES ($1, $2) RETURNING id`,
		code+"@example.com", role,
	).Scan(&userID)
	if err != nil {
		return "", "", err
	}
	err = t.DB.QueryRow(ctx,
		`INSERT INTO employees (user_id, employee_code, full_name) VALUES ($1, $2, $3) RETURNING id`,
		userID, code, "Worker "+code,
	).Scan(&employeeID)
	return userID, employeeID, err
}

// Close closes the connection pool
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
