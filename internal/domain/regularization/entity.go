package regularization

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is an employee-filed exception against a late or early-out record.
// pending is the only non-terminal state.
type Request struct {
	ID           string
	OrgID        string
	RecordID     string
	RequesterID  string
	Reason       string
	Status       Status
	ApproverID   *string
	AdminRemarks *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
