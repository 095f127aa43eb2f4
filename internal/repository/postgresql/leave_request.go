package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	requestStore
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{
		requestStore: newRequestStore(db, approval.VariantLeave, leave.ErrLeaveRequestNotFound),
		db:           db,
	}
}

const leaveColumns = requestColumns + `, leave_type, start_date, end_date, day_count, reason, attachment_url`

func leaveTargets(lr *leave.LeaveRequest) []any {
	return append(requestTargets(&lr.Request),
		&lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.DayCount, &lr.Reason, &lr.AttachmentURL,
	)
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, worker_id, status, notes,
			leave_type, start_date, end_date, day_count,
			reason, attachment_url,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7,
			$8, $9,
			NOW(), NOW()
		) RETURNING ` + leaveColumns

	created := leave.LeaveRequest{Request: approval.Request{Variant: approval.VariantLeave}}
	err := q.QueryRow(ctx, query,
		request.WorkerID, string(request.Status), request.Notes,
		string(request.LeaveType), request.StartDate, request.EndDate, request.DayCount,
		request.Reason, request.AttachmentURL,
	).Scan(leaveTargets(&created)...)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to insert leave request: %w", err)
	}

	return created, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if !isUUID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = $1`

	found := leave.LeaveRequest{Request: approval.Request{Variant: approval.VariantLeave}}
	if err := q.QueryRow(ctx, query, id).Scan(leaveTargets(&found)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return found, nil
}

func (r *leaveRequestRepositoryImpl) ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]leave.LeaveRequest, error) {
	if !isUUID(workerID) {
		return []leave.LeaveRequest{}, nil
	}
	q := GetQuerier(ctx, r.db)

	where, args := workerFilter(workerID, filter)
	query := `SELECT ` + leaveColumns + ` FROM leave_requests ` + where

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr := leave.LeaveRequest{Request: approval.Request{Variant: approval.VariantLeave}}
		if err := rows.Scan(leaveTargets(&lr)...); err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// AcceptedLeaveDays implements timeledger.LeaveDayCounter.
// A leave counts with its full day_count when any of its days fall inside [from, to].
func (r *leaveRequestRepositoryImpl) AcceptedLeaveDays(ctx context.Context, workerIDs []string, from, to time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, COALESCE(SUM(day_count), 0)
		FROM leave_requests
		WHERE status = $1
		  AND start_date <= $3::date
		  AND end_date >= $2::date
	`
	args := []any{string(approval.StatusApproved), from.Format(time.DateOnly), to.Format(time.DateOnly)}
	if len(workerIDs) > 0 {
		workerIDs = uuidsOnly(workerIDs)
		if len(workerIDs) == 0 {
			return map[string]int{}, nil
		}
		query += ` AND worker_id = ANY($4)`
		args = append(args, workerIDs)
	}
	query += ` GROUP BY worker_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum accepted leave days: %w", err)
	}
	defer rows.Close()

	days := make(map[string]int)
	for rows.Next() {
		var workerID string
		var total int
		if err := rows.Scan(&workerID, &total); err != nil {
			return nil, err
		}
		days[workerID] = total
	}
	return days, rows.Err()
}
