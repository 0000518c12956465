package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrNoActivePunch      = errors.New("no open punch found, punch in first")
	ErrRecordNotFound     = errors.New("attendance record not found")
	ErrGeofenceViolation  = errors.New("punch location is outside the allowed geofence")
	ErrInvalidDuration    = errors.New("shift duration is outside the permitted bounds")
	ErrRecordNotDeviating = errors.New("record is neither late nor early-out")
)

// GeofenceViolationError carries the measured distance and the configured
// threshold so the caller can render an actionable message. It unwraps to
// ErrGeofenceViolation.
type GeofenceViolationError struct {
	DistanceMeters  float64
	ThresholdMeters float64
}

func (e *GeofenceViolationError) Error() string {
	return fmt.Sprintf("punch location is %.0fm from the organization geofence center, allowed %.0fm",
		e.DistanceMeters, e.ThresholdMeters)
}

func (e *GeofenceViolationError) Unwrap() error { return ErrGeofenceViolation }

// InvalidDurationError reports an overnight punch-out whose elapsed time falls
// outside the policy window. It unwraps to ErrInvalidDuration.
type InvalidDurationError struct {
	RecordID     string
	ElapsedHours float64
	MinHours     float64
	MaxHours     float64
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("elapsed %.1fh on record %s is outside the permitted %.0f-%.0fh window",
		e.ElapsedHours, e.RecordID, e.MinHours, e.MaxHours)
}

func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }
