package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
)

type approvalActionRepositoryImpl struct {
	db *database.DB
}

func NewApprovalActionRepository(db *database.DB) approval.ActionRepository {
	return &approvalActionRepositoryImpl{db: db}
}

const actionColumns = `id, variant, request_id, actor_id, actor_role, decision, from_status, to_status, notes, created_at`

// Append implements approval.ActionRepository.
func (r *approvalActionRepositoryImpl) Append(ctx context.Context, record approval.ActionRecord) (approval.ActionRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approval_actions (
			id, variant, request_id, actor_id, actor_role,
			decision, from_status, to_status, notes, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, $8, NOW()
		) RETURNING ` + actionColumns

	var created approval.ActionRecord
	err := q.QueryRow(ctx, query,
		string(record.Variant), record.RequestID, record.ActorID, string(record.ActorRole),
		string(record.Decision), string(record.FromStatus), string(record.ToStatus), record.Notes,
	).Scan(
		&created.ID, &created.Variant, &created.RequestID, &created.ActorID, &created.ActorRole,
		&created.Decision, &created.FromStatus, &created.ToStatus, &created.Notes, &created.CreatedAt,
	)
	if err != nil {
		return approval.ActionRecord{}, fmt.Errorf("failed to append approval action: %w", err)
	}
	return created, nil
}

// ListByRequest implements approval.ActionRepository.
func (r *approvalActionRepositoryImpl) ListByRequest(ctx context.Context, variant approval.Variant, requestID string) ([]approval.ActionRecord, error) {
	if !isUUID(requestID) {
		return []approval.ActionRecord{}, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + actionColumns + `
		FROM approval_actions
		WHERE variant = $1 AND request_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, string(variant), requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval actions: %w", err)
	}
	defer rows.Close()

	records := make([]approval.ActionRecord, 0)
	for rows.Next() {
		var a approval.ActionRecord
		if err := rows.Scan(
			&a.ID, &a.Variant, &a.RequestID, &a.ActorID, &a.ActorRole,
			&a.Decision, &a.FromStatus, &a.ToStatus, &a.Notes, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
