package shift

import (
	"context"
	"time"
)

// ShiftRepository stores shift definitions. All methods take orgID to prevent
// cross-org access.
type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id, orgID string) (Shift, error)
	GetByName(ctx context.Context, name, orgID string) (*Shift, error)
	List(ctx context.Context, orgID string, filter ShiftFilter) ([]Shift, int64, error)
	Update(ctx context.Context, s Shift) error
	Deactivate(ctx context.Context, id, orgID string) error
	// MaxOvernightSpanMinutes returns the longest scheduled span among active
	// overnight shifts for the org, 0 when there are none. Drives the
	// punch-out lookback window.
	MaxOvernightSpanMinutes(ctx context.Context, orgID string) (int, error)
}

// AssignmentRepository stores user/shift assignment intervals.
type AssignmentRepository interface {
	Create(ctx context.Context, a Assignment) (Assignment, error)
	GetByID(ctx context.Context, id, orgID string) (Assignment, error)
	GetByUserID(ctx context.Context, userID, orgID string) ([]Assignment, error)
	// ResolveActive returns the assignment covering date for the user,
	// preferring the most recently started interval when several match.
	ResolveActive(ctx context.Context, userID string, date time.Time, orgID string) (*Assignment, error)
	// CloseConflicting sets effective_to = from-1day on any assignment for the
	// user that is open-ended or starts on/after from. Runs inside the same
	// transaction as the subsequent Create.
	CloseConflicting(ctx context.Context, userID string, from time.Time, orgID string) error
	// ListActiveOn returns every assignment whose interval covers date, one
	// row per user; used by the absence sweep.
	ListActiveOn(ctx context.Context, orgID string, date time.Time) ([]Assignment, error)
}
