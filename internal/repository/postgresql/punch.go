package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) timeledger.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

const punchColumns = `id, worker_id, kind, occurred_at, location, proof_ref, device_id, created_at`

func scanPunches(rows pgx.Rows) ([]timeledger.PunchEvent, error) {
	events := make([]timeledger.PunchEvent, 0)
	for rows.Next() {
		var e timeledger.PunchEvent
		if err := rows.Scan(
			&e.ID, &e.WorkerID, &e.Kind, &e.OccurredAt,
			&e.Location, &e.ProofRef, &e.DeviceID, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create implements timeledger.PunchRepository.
func (r *punchRepositoryImpl) Create(ctx context.Context, event timeledger.PunchEvent) (timeledger.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_events (
			id, worker_id, kind, occurred_at, location, proof_ref, device_id, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW()
		) RETURNING ` + punchColumns

	var created timeledger.PunchEvent
	err := q.QueryRow(ctx, query,
		event.WorkerID, string(event.Kind), event.OccurredAt,
		event.Location, event.ProofRef, event.DeviceID,
	).Scan(
		&created.ID, &created.WorkerID, &created.Kind, &created.OccurredAt,
		&created.Location, &created.ProofRef, &created.DeviceID, &created.CreatedAt,
	)
	if err != nil {
		return timeledger.PunchEvent{}, fmt.Errorf("failed to insert punch event: %w", err)
	}
	return created, nil
}

// ListByWorkerBetween implements timeledger.PunchRepository.
func (r *punchRepositoryImpl) ListByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]timeledger.PunchEvent, error) {
	return r.ListBetween(ctx, []string{workerID}, from, to)
}

// ListBetween implements timeledger.PunchRepository.
func (r *punchRepositoryImpl) ListBetween(ctx context.Context, workerIDs []string, from, to time.Time) ([]timeledger.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punch_events
		WHERE occurred_at >= $1 AND occurred_at <= $2
	`
	args := []any{from, to}
	if len(workerIDs) > 0 {
		workerIDs = uuidsOnly(workerIDs)
		if len(workerIDs) == 0 {
			return []timeledger.PunchEvent{}, nil
		}
		query += ` AND worker_id = ANY($3)`
		args = append(args, workerIDs)
	}
	query += ` ORDER BY worker_id ASC, occurred_at ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}
