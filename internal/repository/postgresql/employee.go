package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Optional profile tables are left joined so a worker without a position or branch still shows up
const employeeSelect = `
	SELECT e.id, e.user_id, e.employee_code, e.full_name,
		p.name, b.name, e.employment_status, e.hire_date, e.created_at, e.updated_at
	FROM employees e
	LEFT JOIN positions p ON p.id = e.position_id
	LEFT JOIN branches b ON b.id = e.branch_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeCode, &e.FullName,
		&e.PositionName, &e.BranchName, &e.EmploymentStatus, &e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !isUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1 AND e.deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return e, nil
}

// GetByIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return []employee.Employee{}, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+` WHERE e.id = ANY($1) AND e.deleted_at IS NULL ORDER BY e.full_name ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + ` WHERE e.employment_status = $1 AND e.deleted_at IS NULL ORDER BY e.full_name ASC`

	rows, err := q.Query(ctx, query, string(employee.EmploymentStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}
