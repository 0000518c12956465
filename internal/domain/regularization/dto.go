package regularization

import (
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	OrgID       string `json:"org_id"`
	RecordID    string `json:"record_id"`
	RequesterID string `json:"requester_id"`
	Reason      string `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{Field: "record_id", Message: "record_id is required"})
	}
	if validator.IsEmpty(r.RequesterID) {
		errs = append(errs, validator.ValidationError{Field: "requester_id", Message: "requester_id is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResolveRequest struct {
	ID         string `json:"-"`
	OrgID      string `json:"org_id"`
	ApproverID string `json:"approver_id"`
	Remarks    string `json:"remarks"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DirectRegularizeRequest is the admin path that skips the request object.
type DirectRegularizeRequest struct {
	RecordID   string `json:"-"`
	OrgID      string `json:"org_id"`
	ApproverID string `json:"approver_id"`
	Remarks    string `json:"remarks"`
}

func (r *DirectRegularizeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{Field: "record_id", Message: "record_id is required"})
	}
	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID           string  `json:"id"`
	OrgID        string  `json:"org_id"`
	RecordID     string  `json:"record_id"`
	RequesterID  string  `json:"requester_id"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	ApproverID   *string `json:"approver_id"`
	AdminRemarks *string `json:"admin_remarks"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
