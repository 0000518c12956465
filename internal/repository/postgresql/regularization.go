package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/regularization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
)

type regularizationRepository struct {
	db *database.DB
}

const requestColumns = `
	id, org_id, record_id, requester_id, reason, status,
	approver_id, admin_remarks, created_at, updated_at
`

func scanRequest(row pgx.Row) (regularization.Request, error) {
	var req regularization.Request
	err := row.Scan(
		&req.ID, &req.OrgID, &req.RecordID, &req.RequesterID, &req.Reason, &req.Status,
		&req.ApproverID, &req.AdminRemarks, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements regularization.RequestRepository.
func (r *regularizationRepository) Create(ctx context.Context, req regularization.Request) (regularization.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO regularization_requests (
			id, org_id, record_id, requester_id, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.OrgID, req.RecordID, req.RequesterID, req.Reason, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return regularization.Request{}, fmt.Errorf("failed to create regularization request: %w", err)
	}

	return req, nil
}

// GetByID implements regularization.RequestRepository.
func (r *regularizationRepository) GetByID(ctx context.Context, id, orgID string) (regularization.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM regularization_requests WHERE id = $1 AND org_id = $2`

	req, err := scanRequest(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return regularization.Request{}, regularization.ErrRequestNotFound
		}
		return regularization.Request{}, fmt.Errorf("failed to get regularization request by ID: %w", err)
	}

	return req, nil
}

// HasPendingForRecord implements regularization.RequestRepository.
func (r *regularizationRepository) HasPendingForRecord(ctx context.Context, recordID, orgID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM regularization_requests
			WHERE record_id = $1 AND org_id = $2 AND status = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, recordID, orgID, regularization.StatusPending).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending regularization request: %w", err)
	}

	return exists, nil
}

// UpdateStatus implements regularization.RequestRepository. The status guard
// in the WHERE clause makes a second resolution of the same request fail with
// ErrRequestAlreadyProcessed instead of silently overwriting.
func (r *regularizationRepository) UpdateStatus(ctx context.Context, req regularization.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE regularization_requests
		SET status = $1, approver_id = $2, admin_remarks = $3, updated_at = NOW()
		WHERE id = $4 AND org_id = $5 AND status = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		req.Status, req.ApproverID, req.AdminRemarks,
		req.ID, req.OrgID, regularization.StatusPending,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return regularization.ErrRequestAlreadyProcessed
		}
		return fmt.Errorf("failed to update regularization request status: %w", err)
	}

	return nil
}

// ListByRecord implements regularization.RequestRepository.
func (r *regularizationRepository) ListByRecord(ctx context.Context, recordID, orgID string) ([]regularization.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `
		FROM regularization_requests
		WHERE record_id = $1 AND org_id = $2
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, recordID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query regularization requests: %w", err)
	}
	defer rows.Close()

	var requests []regularization.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan regularization request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func NewRegularizationRepository(db *database.DB) regularization.RequestRepository {
	return &regularizationRepository{db: db}
}
