package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const recordColumns = `
	id, org_id, user_id, date, shift_id,
	punch_in_time, punch_in_latitude, punch_in_longitude, punch_in_address,
	punch_in_selfie_url, punch_in_device_info, punch_in_distance_m,
	punch_out_time, punch_out_latitude, punch_out_longitude, punch_out_address,
	punch_out_selfie_url, punch_out_device_info, punch_out_distance_m,
	is_outside_geofence, total_hours, effective_hours,
	is_late, is_early_out, is_half_day, is_weekend, is_holiday, is_absent,
	is_regularized, regularized_by, regularized_at, regularization_remarks,
	needs_review, created_at, updated_at
`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.OrgID, &rec.UserID, &rec.Date, &rec.ShiftID,
		&rec.PunchInTime, &rec.PunchInLatitude, &rec.PunchInLongitude, &rec.PunchInAddress,
		&rec.PunchInSelfieURL, &rec.PunchInDeviceInfo, &rec.PunchInDistanceM,
		&rec.PunchOutTime, &rec.PunchOutLatitude, &rec.PunchOutLongitude, &rec.PunchOutAddress,
		&rec.PunchOutSelfieURL, &rec.PunchOutDeviceInfo, &rec.PunchOutDistanceM,
		&rec.IsOutsideGeofence, &rec.TotalHours, &rec.EffectiveHours,
		&rec.IsLate, &rec.IsEarlyOut, &rec.IsHalfDay, &rec.IsWeekend, &rec.IsHoliday, &rec.IsAbsent,
		&rec.IsRegularized, &rec.RegularizedBy, &rec.RegularizedAt, &rec.RegularizationRemarks,
		&rec.NeedsReview, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Upsert implements attendance.RecordRepository. The unique index on
// (org_id, user_id, date) makes concurrent first punches collapse to a single
// row; the loser of the race reads the winner's row back.
func (r *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, org_id, user_id, date, shift_id,
			punch_in_time, punch_in_latitude, punch_in_longitude, punch_in_address,
			punch_in_selfie_url, punch_in_device_info, punch_in_distance_m,
			is_outside_geofence, total_hours, effective_hours,
			is_late, is_early_out, is_half_day, is_weekend, is_holiday, is_absent,
			needs_review
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17, $18, $19, $20, $21,
			$22
		)
		ON CONFLICT (org_id, user_id, date) DO NOTHING
		RETURNING ` + recordColumns

	stored, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID, rec.OrgID, rec.UserID, rec.Date, rec.ShiftID,
		rec.PunchInTime, rec.PunchInLatitude, rec.PunchInLongitude, rec.PunchInAddress,
		rec.PunchInSelfieURL, rec.PunchInDeviceInfo, rec.PunchInDistanceM,
		rec.IsOutsideGeofence, rec.TotalHours, rec.EffectiveHours,
		rec.IsLate, rec.IsEarlyOut, rec.IsHalfDay, rec.IsWeekend, rec.IsHoliday, rec.IsAbsent,
		rec.NeedsReview,
	))
	if err == nil {
		return stored, true, nil
	}
	if err != pgx.ErrNoRows {
		return attendance.Record{}, false, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	existing, err := r.GetByUserAndDate(ctx, rec.UserID, rec.Date, rec.OrgID)
	if err != nil {
		return attendance.Record{}, false, err
	}
	if existing == nil {
		return attendance.Record{}, false, attendance.ErrRecordNotFound
	}

	return *existing, false, nil
}

// GetByID implements attendance.RecordRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id, orgID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id = $1 AND org_id = $2`

	rec, err := scanRecord(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.RecordRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND date = $2 AND org_id = $3
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, userID, date, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by date: %w", err)
	}

	return &rec, nil
}

// GetOpenRecord implements attendance.RecordRepository.
func (r *attendanceRepository) GetOpenRecord(ctx context.Context, userID string, since time.Time, orgID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND org_id = $2
			AND date >= $3
			AND punch_in_time IS NOT NULL
			AND punch_out_time IS NULL
		ORDER BY date DESC
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, userID, orgID, since))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance record: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.RecordRepository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records SET
			shift_id = $1,
			punch_in_time = $2, punch_in_latitude = $3, punch_in_longitude = $4,
			punch_in_address = $5, punch_in_selfie_url = $6, punch_in_device_info = $7,
			punch_in_distance_m = $8,
			punch_out_time = $9, punch_out_latitude = $10, punch_out_longitude = $11,
			punch_out_address = $12, punch_out_selfie_url = $13, punch_out_device_info = $14,
			punch_out_distance_m = $15,
			is_outside_geofence = $16, total_hours = $17, effective_hours = $18,
			is_late = $19, is_early_out = $20, is_half_day = $21,
			is_weekend = $22, is_holiday = $23, is_absent = $24,
			is_regularized = $25, regularized_by = $26, regularized_at = $27,
			regularization_remarks = $28, needs_review = $29,
			updated_at = NOW()
		WHERE id = $30 AND org_id = $31
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rec.ShiftID,
		rec.PunchInTime, rec.PunchInLatitude, rec.PunchInLongitude,
		rec.PunchInAddress, rec.PunchInSelfieURL, rec.PunchInDeviceInfo,
		rec.PunchInDistanceM,
		rec.PunchOutTime, rec.PunchOutLatitude, rec.PunchOutLongitude,
		rec.PunchOutAddress, rec.PunchOutSelfieURL, rec.PunchOutDeviceInfo,
		rec.PunchOutDistanceM,
		rec.IsOutsideGeofence, rec.TotalHours, rec.EffectiveHours,
		rec.IsLate, rec.IsEarlyOut, rec.IsHalfDay,
		rec.IsWeekend, rec.IsHoliday, rec.IsAbsent,
		rec.IsRegularized, rec.RegularizedBy, rec.RegularizedAt,
		rec.RegularizationRemarks, rec.NeedsReview,
		rec.ID, rec.OrgID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// List implements attendance.RecordRepository.
func (r *attendanceRepository) List(ctx context.Context, orgID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "org_id = $1"
	args := []interface{}{orgID}
	argIdx := 2

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Deviations {
		baseWhere += " AND (is_late OR is_early_out) AND NOT is_regularized"
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
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
		"SELECT "+recordColumns+" FROM attendance_records WHERE %s ORDER BY date DESC, user_id LIMIT $%d OFFSET $%d",
		baseWhere, argIdx, argIdx+1,
	)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// ListForMonth implements attendance.RecordRepository.
func (r *attendanceRepository) ListForMonth(ctx context.Context, userID string, year int, month time.Month, orgID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND org_id = $2
			AND date >= $3 AND date < $4
		ORDER BY date, created_at
	`

	rows, err := q.Query(ctx, query, userID, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// BulkCreateAbsences implements attendance.RecordRepository.
func (r *attendanceRepository) BulkCreateAbsences(ctx context.Context, recs []attendance.Record) error {
	if len(recs) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, org_id, user_id, date, shift_id, is_absent,
			is_weekend, is_holiday, total_hours, effective_hours
		) VALUES (
			$1, $2, $3, $4, $5, TRUE,
			$6, $7, 0, 0
		)
		ON CONFLICT (org_id, user_id, date) DO NOTHING
	`

	for _, rec := range recs {
		_, err := q.Exec(ctx, query,
			rec.ID, rec.OrgID, rec.UserID, rec.Date, rec.ShiftID,
			rec.IsWeekend, rec.IsHoliday,
		)
		if err != nil {
			return fmt.Errorf("failed to insert absence record: %w", err)
		}
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}
