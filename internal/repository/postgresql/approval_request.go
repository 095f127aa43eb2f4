package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var requestTables = map[approval.Variant]string{
	approval.VariantTimesheet:     "timesheets",
	approval.VariantLeave:         "leave_requests",
	approval.VariantReimbursement: "reimbursements",
}

const requestColumns = `id, worker_id, status, notes, resolved_by, resolved_at, created_at, updated_at`

// requestStore implements approval.RequestStore over one of the request tables.
// Variant repositories embed it.
type requestStore struct {
	db       *database.DB
	variant  approval.Variant
	table    string
	notFound error
}

func newRequestStore(db *database.DB, variant approval.Variant, notFound error) requestStore {
	return requestStore{
		db:       db,
		variant:  variant,
		table:    requestTables[variant],
		notFound: notFound,
	}
}

// requestTargets returns scan destinations for requestColumns
func requestTargets(req *approval.Request) []any {
	return []any{
		&req.ID,
		&req.WorkerID,
		&req.Status,
		&req.Notes,
		&req.ResolvedBy,
		&req.ResolvedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	}
}

// GetForDecision implements approval.RequestStore.
// The row stays locked until the surrounding transaction ends.
func (s requestStore) GetForDecision(ctx context.Context, id string) (approval.Request, error) {
	if !isUUID(id) {
		return approval.Request{}, s.notFound
	}
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, requestColumns, s.table)
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}

	req := approval.Request{Variant: s.variant}
	err := q.QueryRow(ctx, query, id).Scan(requestTargets(&req)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Request{}, s.notFound
		}
		return approval.Request{}, fmt.Errorf("failed to load %s %s: %w", s.variant, id, err)
	}
	return req, nil
}

// SaveDecision implements approval.RequestStore.
func (s requestStore) SaveDecision(ctx context.Context, req approval.Request) error {
	if !isUUID(req.ID) {
		return s.notFound
	}
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, notes = $3, resolved_by = $4, resolved_at = $5, updated_at = NOW()
		WHERE id = $1
	`, s.table)

	commandTag, err := q.Exec(ctx, query, req.ID, string(req.Status), req.Notes, req.ResolvedBy, req.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", s.variant, req.ID, err)
	}
	if commandTag.RowsAffected() != 1 {
		return s.notFound
	}
	return nil
}

// ListByStatus implements approval.RequestStore.
func (s requestStore) ListByStatus(ctx context.Context, statuses []approval.Status) ([]approval.Request, error) {
	if len(statuses) == 0 {
		return []approval.Request{}, nil
	}
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE status = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, requestColumns, s.table)

	rows, err := q.Query(ctx, query, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s by status: %w", s.variant, err)
	}
	defer rows.Close()

	return s.collect(rows)
}

func (s requestStore) listRecent(ctx context.Context, limit int) ([]approval.Request, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, requestColumns, s.table)

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent %s: %w", s.variant, err)
	}
	defer rows.Close()

	return s.collect(rows)
}

func (s requestStore) countByStatus(ctx context.Context) (map[approval.Status]int64, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM %s GROUP BY status`, s.table)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", s.variant, err)
	}
	defer rows.Close()

	counts := make(map[approval.Status]int64)
	for rows.Next() {
		var status approval.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s requestStore) collect(rows pgx.Rows) ([]approval.Request, error) {
	requests := make([]approval.Request, 0)
	for rows.Next() {
		req := approval.Request{Variant: s.variant}
		if err := rows.Scan(requestTargets(&req)...); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func statusStrings(statuses []approval.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// workerFilter builds the WHERE clause shared by the ListByWorker queries
func workerFilter(workerID string, filter approval.ListFilter) (string, []any) {
	where := `WHERE worker_id = $1`
	args := []any{workerID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit, max(filter.Offset, 0))
	where += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return where, args
}
