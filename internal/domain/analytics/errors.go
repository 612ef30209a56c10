package analytics

import "errors"

var (
	// ErrInvalidRange indicates an end date before the start date or a range
	// longer than the configured maximum.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidDate indicates a date that isn't YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)
