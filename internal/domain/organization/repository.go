package organization

import (
	"context"
	"time"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (Organization, error)
	// ListIDs returns every organization id; used by the nightly sweeps.
	ListIDs(ctx context.Context) ([]string, error)
}

// HolidayRepository is the read-only holiday calendar collaborator.
type HolidayRepository interface {
	IsHoliday(ctx context.Context, orgID string, date time.Time) (bool, error)
}
