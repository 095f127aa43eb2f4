package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timesheetRepositoryImpl struct {
	requestStore
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{
		requestStore: newRequestStore(db, approval.VariantTimesheet, timesheet.ErrTimesheetNotFound),
		db:           db,
	}
}

const timesheetColumns = requestColumns + `, project, task, work_date, hours, hours_derived`

func timesheetTargets(ts *timesheet.Timesheet) []any {
	return append(requestTargets(&ts.Request), &ts.Project, &ts.Task, &ts.Date, &ts.Hours, &ts.HoursDerived)
}

// Create implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Create(ctx context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			id, worker_id, status, notes,
			project, task, work_date, hours, hours_derived,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7, $8,
			NOW(), NOW()
		) RETURNING ` + timesheetColumns

	created := timesheet.Timesheet{Request: approval.Request{Variant: approval.VariantTimesheet}}
	err := q.QueryRow(ctx, query,
		ts.WorkerID, string(ts.Status), ts.Notes,
		ts.Project, ts.Task, ts.Date, ts.Hours, ts.HoursDerived,
	).Scan(timesheetTargets(&created)...)
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to insert timesheet: %w", err)
	}

	return created, nil
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	if !isUUID(id) {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1`

	found := timesheet.Timesheet{Request: approval.Request{Variant: approval.VariantTimesheet}}
	if err := q.QueryRow(ctx, query, id).Scan(timesheetTargets(&found)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, err
	}
	return found, nil
}

// ListByWorker implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]timesheet.Timesheet, error) {
	if !isUUID(workerID) {
		return []timesheet.Timesheet{}, nil
	}
	q := GetQuerier(ctx, r.db)

	where, args := workerFilter(workerID, filter)
	query := `SELECT ` + timesheetColumns + ` FROM timesheets ` + where

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timesheets := make([]timesheet.Timesheet, 0)
	for rows.Next() {
		ts := timesheet.Timesheet{Request: approval.Request{Variant: approval.VariantTimesheet}}
		if err := rows.Scan(timesheetTargets(&ts)...); err != nil {
			return nil, err
		}
		timesheets = append(timesheets, ts)
	}
	return timesheets, rows.Err()
}
