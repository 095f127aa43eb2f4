package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/reimbursement"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reimbursementRepositoryImpl struct {
	requestStore
	db *database.DB
}

func NewReimbursementRepository(db *database.DB) reimbursement.ReimbursementRepository {
	return &reimbursementRepositoryImpl{
		requestStore: newRequestStore(db, approval.VariantReimbursement, reimbursement.ErrReimbursementNotFound),
		db:           db,
	}
}

const reimbursementColumns = requestColumns + `, amount, description, receipt_ref`

func reimbursementTargets(rb *reimbursement.Reimbursement) []any {
	return append(requestTargets(&rb.Request), &rb.Amount, &rb.Description, &rb.ReceiptRef)
}

func (r *reimbursementRepositoryImpl) Create(ctx context.Context, rb reimbursement.Reimbursement) (reimbursement.Reimbursement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reimbursements (
			id, worker_id, status, notes,
			amount, description, receipt_ref,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			NOW(), NOW()
		) RETURNING ` + reimbursementColumns

	created := reimbursement.Reimbursement{Request: approval.Request{Variant: approval.VariantReimbursement}}
	err := q.QueryRow(ctx, query,
		rb.WorkerID, string(rb.Status), rb.Notes,
		rb.Amount, rb.Description, rb.ReceiptRef,
	).Scan(reimbursementTargets(&created)...)
	if err != nil {
		return reimbursement.Reimbursement{}, fmt.Errorf("failed to insert reimbursement: %w", err)
	}

	return created, nil
}

func (r *reimbursementRepositoryImpl) GetByID(ctx context.Context, id string) (reimbursement.Reimbursement, error) {
	if !isUUID(id) {
		return reimbursement.Reimbursement{}, reimbursement.ErrReimbursementNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reimbursementColumns + ` FROM reimbursements WHERE id = $1`

	found := reimbursement.Reimbursement{Request: approval.Request{Variant: approval.VariantReimbursement}}
	if err := q.QueryRow(ctx, query, id).Scan(reimbursementTargets(&found)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reimbursement.Reimbursement{}, reimbursement.ErrReimbursementNotFound
		}
		return reimbursement.Reimbursement{}, err
	}
	return found, nil
}

func (r *reimbursementRepositoryImpl) ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]reimbursement.Reimbursement, error) {
	if !isUUID(workerID) {
		return []reimbursement.Reimbursement{}, nil
	}
	q := GetQuerier(ctx, r.db)

	where, args := workerFilter(workerID, filter)
	query := `SELECT ` + reimbursementColumns + ` FROM reimbursements ` + where

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]reimbursement.Reimbursement, 0)
	for rows.Next() {
		rb := reimbursement.Reimbursement{Request: approval.Request{Variant: approval.VariantReimbursement}}
		if err := rows.Scan(reimbursementTargets(&rb)...); err != nil {
			return nil, err
		}
		items = append(items, rb)
	}
	return items, rows.Err()
}
