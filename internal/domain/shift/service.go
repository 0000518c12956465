package shift

import (
	"context"
	"time"
)

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, id, orgID string) (ShiftResponse, error)
	ListShifts(ctx context.Context, orgID string, filter ShiftFilter) (ListShiftsResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeactivateShift(ctx context.Context, id, orgID string) error
	// ImportTemplates upserts externally produced shift templates by name.
	ImportTemplates(ctx context.Context, req ImportTemplatesRequest) ([]ShiftResponse, error)

	Assign(ctx context.Context, req AssignRequest) (AssignmentResponse, error)
	Reassign(ctx context.Context, req AssignRequest) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, userID, orgID string) ([]AssignmentResponse, error)
	// ResolveActiveShift returns the shift assigned to the user on date, or
	// (nil, nil) when no assignment covers it.
	ResolveActiveShift(ctx context.Context, userID string, date time.Time, orgID string) (*Shift, error)
}
