package summary

import "errors"

var (
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidYear       = errors.New("year is out of range")
	ErrMalformedOverride = errors.New("override payload is malformed")
)
