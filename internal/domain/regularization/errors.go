package regularization

import "errors"

var (
	ErrRequestNotFound          = errors.New("regularization request not found")
	ErrDuplicateRequest         = errors.New("a pending regularization request already exists for this record")
	ErrRequestAlreadyProcessed  = errors.New("regularization request has already been approved or rejected")
	ErrRecordAlreadyRegularized = errors.New("attendance record is already regularized")
)
