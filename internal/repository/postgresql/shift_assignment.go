package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

const assignmentColumns = `
	id, org_id, user_id, shift_id, effective_from, effective_to,
	assigned_by, created_at, updated_at
`

func scanAssignment(row pgx.Row) (shift.Assignment, error) {
	var a shift.Assignment
	err := row.Scan(
		&a.ID, &a.OrgID, &a.UserID, &a.ShiftID, &a.EffectiveFrom, &a.EffectiveTo,
		&a.AssignedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements shift.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			id, org_id, user_id, shift_id, effective_from, effective_to, assigned_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.OrgID, a.UserID, a.ShiftID, a.EffectiveFrom, a.EffectiveTo, a.AssignedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return shift.Assignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return a, nil
}

// GetByID implements shift.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id, orgID string) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + ` FROM shift_assignments WHERE id = $1 AND org_id = $2`

	a, err := scanAssignment(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Assignment{}, shift.ErrAssignmentNotFound
		}
		return shift.Assignment{}, fmt.Errorf("failed to get shift assignment by ID: %w", err)
	}

	return a, nil
}

// GetByUserID implements shift.AssignmentRepository.
func (r *assignmentRepository) GetByUserID(ctx context.Context, userID, orgID string) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE user_id = $1 AND org_id = $2
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// ResolveActive implements shift.AssignmentRepository.
func (r *assignmentRepository) ResolveActive(ctx context.Context, userID string, date time.Time, orgID string) (*shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE user_id = $1 AND org_id = $2
			AND effective_from <= $3
			AND (effective_to IS NULL OR effective_to >= $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, userID, orgID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve active shift assignment: %w", err)
	}

	return &a, nil
}

// CloseConflicting implements shift.AssignmentRepository.
func (r *assignmentRepository) CloseConflicting(ctx context.Context, userID string, from time.Time, orgID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET effective_to = $3::date - INTERVAL '1 day', updated_at = NOW()
		WHERE user_id = $1 AND org_id = $2
			AND (effective_to IS NULL OR effective_to >= $3)
	`

	if _, err := q.Exec(ctx, query, userID, orgID, from); err != nil {
		return fmt.Errorf("failed to close conflicting assignments: %w", err)
	}

	return nil
}

// ListActiveOn implements shift.AssignmentRepository.
func (r *assignmentRepository) ListActiveOn(ctx context.Context, orgID string, date time.Time) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	// DISTINCT ON keeps the most recently started interval per user when
	// several cover the same date.
	query := `
		SELECT DISTINCT ON (user_id) ` + assignmentColumns + `
		FROM shift_assignments
		WHERE org_id = $1
			AND effective_from <= $2
			AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY user_id, effective_from DESC
	`

	rows, err := q.Query(ctx, query, orgID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func NewAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &assignmentRepository{db: db}
}
