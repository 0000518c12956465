package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/summary"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
)

type overrideRepository struct {
	db *database.DB
}

// GetWinning implements summary.OverrideRepository.
func (r *overrideRepository) GetWinning(ctx context.Context, userID string, year int, month time.Month, orgID string) (*summary.MonthlyOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, user_id, year, month, source_batch_id, payload,
			approved_by, approved_at, created_at
		FROM monthly_overrides
		WHERE user_id = $1 AND year = $2 AND month = $3 AND org_id = $4
		ORDER BY COALESCE(approved_at, created_at) DESC
		LIMIT 1
	`

	var o summary.MonthlyOverride
	var payload []byte
	err := q.QueryRow(ctx, query, userID, year, int(month), orgID).Scan(
		&o.ID, &o.OrgID, &o.UserID, &o.Year, &o.Month, &o.SourceBatchID, &payload,
		&o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly override: %w", err)
	}

	if err := json.Unmarshal(payload, &o.Payload); err != nil {
		return nil, fmt.Errorf("%w: override %s: %v", summary.ErrMalformedOverride, o.ID, err)
	}

	return &o, nil
}

// Create implements summary.OverrideRepository.
func (r *overrideRepository) Create(ctx context.Context, o summary.MonthlyOverride) (summary.MonthlyOverride, error) {
	q := GetQuerier(ctx, r.db)

	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return summary.MonthlyOverride{}, fmt.Errorf("failed to marshal override payload: %w", err)
	}

	query := `
		INSERT INTO monthly_overrides (
			id, org_id, user_id, year, month, source_batch_id, payload,
			approved_by, approved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		o.ID, o.OrgID, o.UserID, o.Year, o.Month, o.SourceBatchID, payload,
		o.ApprovedBy, o.ApprovedAt,
	).Scan(&o.CreatedAt)

	if err != nil {
		return summary.MonthlyOverride{}, fmt.Errorf("failed to create monthly override: %w", err)
	}

	return o, nil
}

func NewOverrideRepository(db *database.DB) summary.OverrideRepository {
	return &overrideRepository{db: db}
}
