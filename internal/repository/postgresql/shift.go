package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

const shiftColumns = `
	id, org_id, name, start_time, end_time, duration_hours,
	break_duration_minutes, late_threshold_minutes, early_out_threshold_minutes,
	weekly_off_days, is_active, created_at, updated_at
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.OrgID, &s.Name, &s.StartTime, &s.EndTime, &s.DurationHours,
		&s.BreakDurationMinutes, &s.LateThresholdMinutes, &s.EarlyOutThresholdMinutes,
		&s.WeeklyOffDays, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, org_id, name, start_time, end_time, duration_hours,
			break_duration_minutes, late_threshold_minutes, early_out_threshold_minutes,
			weekly_off_days, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.OrgID, s.Name, s.StartTime, s.EndTime, s.DurationHours,
		s.BreakDurationMinutes, s.LateThresholdMinutes, s.EarlyOutThresholdMinutes,
		s.WeeklyOffDays, s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id, orgID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 AND org_id = $2`

	s, err := scanShift(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return s, nil
}

// GetByName implements shift.ShiftRepository.
func (r *shiftRepository) GetByName(ctx context.Context, name, orgID string) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE name = $1 AND org_id = $2 LIMIT 1`

	s, err := scanShift(q.QueryRow(ctx, query, name, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift by name: %w", err)
	}

	return &s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, orgID string, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "org_id = $1"
	args := []interface{}{orgID}
	argIdx := 2

	if filter.Name != nil && *filter.Name != "" {
		baseWhere += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}
	if filter.ActiveOnly {
		baseWhere += " AND is_active"
	}

	countQuery := "SELECT COUNT(*) FROM shifts WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(
		"SELECT "+shiftColumns+" FROM shifts WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		baseWhere, argIdx, argIdx+1,
	)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, total, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts SET
			name = $1, start_time = $2, end_time = $3, duration_hours = $4,
			break_duration_minutes = $5, late_threshold_minutes = $6,
			early_out_threshold_minutes = $7, weekly_off_days = $8,
			is_active = $9, updated_at = NOW()
		WHERE id = $10 AND org_id = $11
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		s.Name, s.StartTime, s.EndTime, s.DurationHours,
		s.BreakDurationMinutes, s.LateThresholdMinutes,
		s.EarlyOutThresholdMinutes, s.WeeklyOffDays,
		s.IsActive, s.ID, s.OrgID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}

	return nil
}

// Deactivate implements shift.ShiftRepository.
func (r *shiftRepository) Deactivate(ctx context.Context, id, orgID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE shifts SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND org_id = $2`

	tag, err := q.Exec(ctx, query, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to deactivate shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// MaxOvernightSpanMinutes implements shift.ShiftRepository.
func (r *shiftRepository) MaxOvernightSpanMinutes(ctx context.Context, orgID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	// Overnight shifts have end_time < start_time; span wraps past midnight.
	query := `
		SELECT COALESCE(MAX(
			(EXTRACT(EPOCH FROM end_time) - EXTRACT(EPOCH FROM start_time)) / 60 + 1440
		), 0)::int
		FROM shifts
		WHERE org_id = $1 AND is_active AND end_time < start_time
	`

	var minutes int
	if err := q.QueryRow(ctx, query, orgID).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("failed to get max overnight span: %w", err)
	}

	return minutes, nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
