package regularization

import "context"

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id, orgID string) (Request, error)
	// HasPendingForRecord guards against duplicate pending requests.
	HasPendingForRecord(ctx context.Context, recordID, orgID string) (bool, error)
	// UpdateStatus moves a pending request to a terminal status. Returns
	// ErrRequestAlreadyProcessed when the row is no longer pending.
	UpdateStatus(ctx context.Context, req Request) error
	ListByRecord(ctx context.Context, recordID, orgID string) ([]Request, error)
}
