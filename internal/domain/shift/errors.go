package shift

import "errors"

var (
	// Shift catalog errors
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftNameExists     = errors.New("shift with this name already exists")
	ErrShiftInactive       = errors.New("shift is inactive")
	ErrInvalidTimeOfDay    = errors.New("invalid time of day, use HH:MM")
	ErrInvalidWeeklyOffDay = errors.New("weekly off days must be a subset of mon..sun")
	ErrDurationMismatch    = errors.New("duration_hours does not match the shift time window minus break")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrShiftNotAssigned   = errors.New("no shift assigned for this user and date")
)
