package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/organization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
)

type organizationRepository struct {
	db *database.DB
}

// GetByID implements organization.OrganizationRepository.
func (o *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT id, name, timezone, geofence_latitude, geofence_longitude,
			   geofence_radius_meters, geofence_mode, default_weekly_off_days,
			   created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org organization.Organization
	err := q.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Timezone, &org.GeofenceLatitude, &org.GeofenceLongitude,
		&org.GeofenceRadiusMeters, &org.GeofenceMode, &org.DefaultWeeklyOffDays,
		&org.CreatedAt, &org.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to get organization by ID: %w", err)
	}

	return org, nil
}

// ListIDs implements organization.OrganizationRepository.
func (o *organizationRepository) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, o.db)

	rows, err := q.Query(ctx, `SELECT id FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan organization id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepository{db: db}
}

type holidayRepository struct {
	db *database.DB
}

// IsHoliday implements organization.HolidayRepository.
func (h *holidayRepository) IsHoliday(ctx context.Context, orgID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE org_id = $1 AND date = $2
		)
	`

	var isHoliday bool
	if err := q.QueryRow(ctx, query, orgID, date.Format("2006-01-02")).Scan(&isHoliday); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}

	return isHoliday, nil
}

func NewHolidayRepository(db *database.DB) organization.HolidayRepository {
	return &holidayRepository{db: db}
}
