package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access for attendance records. All methods
// take orgID to prevent cross-org access.
type RecordRepository interface {
	// Upsert inserts the record or, when a row for (user, date) already
	// exists, returns that row unchanged with inserted=false. Relies on a
	// unique (org_id, user_id, date) constraint so concurrent punch-ins
	// collapse to one write.
	Upsert(ctx context.Context, rec Record) (stored Record, inserted bool, err error)

	GetByID(ctx context.Context, id, orgID string) (Record, error)

	// GetByUserAndDate returns nil when no row exists for that day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string) (*Record, error)

	// GetOpenRecord returns the most recent record with a punch-in and no
	// punch-out whose date is on or after since, or nil when none is open.
	GetOpenRecord(ctx context.Context, userID string, since time.Time, orgID string) (*Record, error)

	// Update persists the full mutable state of the record by id.
	Update(ctx context.Context, rec Record) error

	List(ctx context.Context, orgID string, filter RecordFilter) ([]Record, int64, error)

	// ListForMonth returns every record whose date falls inside the month,
	// ordered by date.
	ListForMonth(ctx context.Context, userID string, year int, month time.Month, orgID string) ([]Record, error)

	// BulkCreateAbsences inserts sweep-materialized absent rows, skipping
	// (user, date) pairs that already have a record.
	BulkCreateAbsences(ctx context.Context, recs []Record) error
}
