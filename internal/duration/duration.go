package duration

import (
	"errors"
	"fmt"
)

// ErrInvalidDuration is returned for negative second counts.
var ErrInvalidDuration = errors.New("invalid duration")

// ErrInvalidThresholds is returned when heatmap cut points are malformed.
var ErrInvalidThresholds = errors.New("invalid heatmap thresholds")

const (
	// MaxLevel is the highest heatmap intensity.
	MaxLevel = 4
	// Zero is the rendering of an empty duration.
	Zero = "0h 0m"
)

// Format renders seconds as "{H}h {M}m", truncating both parts.
func Format(seconds int64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("%w: %d seconds", ErrInvalidDuration, seconds)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes), nil
}

// Thresholds are ascending hour cut points. A day's level is the number of
// cut points strictly below its tracked hours.
type Thresholds []float64

// DefaultThresholds maps 0h to 0, (0,2] to 1, (2,4] to 2, (4,6] to 3 and
// anything above 6h to 4.
var DefaultThresholds = Thresholds{0, 2, 4, 6}

// Validate checks there is one cut point per non-zero level, in ascending order.
func (t Thresholds) Validate() error {
	if len(t) != MaxLevel {
		return fmt.Errorf("%w: want %d cut points, got %d", ErrInvalidThresholds, MaxLevel, len(t))
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return fmt.Errorf("%w: cut points must be strictly ascending", ErrInvalidThresholds)
		}
	}
	if t[0] < 0 {
		return fmt.Errorf("%w: cut points must not be negative", ErrInvalidThresholds)
	}
	return nil
}

// Level maps tracked hours in a day to an intensity in [0, MaxLevel].
func (t Thresholds) Level(hours float64) int {
	level := 0
	for _, cut := range t {
		if hours > cut {
			level++
		}
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
