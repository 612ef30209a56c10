package session

import (
	"fmt"
	"time"
)

// validateRange checks a session's boundaries against each other and now.
// Open sessions may not start in the future; closed sessions may not end
// before they start or after now.
func validateRange(start time.Time, end *time.Time, now time.Time) error {
	if end == nil {
		if start.After(now) {
			return fmt.Errorf("%w: open session cannot start in the future", ErrInvalidTimeRange)
		}
		return nil
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidTimeRange, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if end.After(now) {
		return fmt.Errorf("%w: end %s is in the future", ErrInvalidTimeRange, end.Format(time.RFC3339))
	}
	return nil
}
