package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/organization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/regularization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/summary"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Structured punch errors carry measured values for the client.
	var geofenceErr *attendance.GeofenceViolationError
	if errors.As(err, &geofenceErr) {
		Error(w, http.StatusForbidden, "GEOFENCE_VIOLATION", geofenceErr.Error(), map[string]string{
			"distance_meters":  fmt.Sprintf("%.0f", geofenceErr.DistanceMeters),
			"threshold_meters": fmt.Sprintf("%.0f", geofenceErr.ThresholdMeters),
		})
		return
	}

	var durationErr *attendance.InvalidDurationError
	if errors.As(err, &durationErr) {
		Error(w, http.StatusUnprocessableEntity, "INVALID_DURATION", durationErr.Error(), map[string]string{
			"elapsed_hours": fmt.Sprintf("%.1f", durationErr.ElapsedHours),
			"min_hours":     fmt.Sprintf("%.0f", durationErr.MinHours),
			"max_hours":     fmt.Sprintf("%.0f", durationErr.MaxHours),
		})
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoActivePunch):
		Conflict(w, "No open punch found, punch in first")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordNotDeviating):
		BadRequest(w, "Record is neither late nor early-out", nil)

	// Organization domain errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift with this name already exists")
	case errors.Is(err, shift.ErrShiftInactive):
		BadRequest(w, "Shift is inactive", nil)
	case errors.Is(err, shift.ErrDurationMismatch):
		BadRequest(w, "duration_hours does not match the shift time window minus break", nil)
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrShiftNotAssigned):
		NotFound(w, "No shift assigned for this user and date")

	// Regularization domain errors
	case errors.Is(err, regularization.ErrRequestNotFound):
		NotFound(w, "Regularization request not found")
	case errors.Is(err, regularization.ErrDuplicateRequest):
		Conflict(w, "A pending regularization request already exists for this record")
	case errors.Is(err, regularization.ErrRequestAlreadyProcessed):
		Conflict(w, "Regularization request already processed")
	case errors.Is(err, regularization.ErrRecordAlreadyRegularized):
		Conflict(w, "Attendance record is already regularized")

	// Summary domain errors
	case errors.Is(err, summary.ErrInvalidMonth):
		BadRequest(w, "Month must be between 1 and 12", nil)
	case errors.Is(err, summary.ErrInvalidYear):
		BadRequest(w, "Year is out of range", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
