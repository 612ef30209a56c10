package duration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0h 0m"},
		{59, "0h 0m"},
		{60, "0h 1m"},
		{5400, "1h 30m"},
		{3599, "0h 59m"},
		{36000 + 61, "10h 1m"},
	}
	for _, tc := range cases {
		got, err := Format(tc.seconds)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "seconds=%d", tc.seconds)
	}
}

func TestFormat_Negative(t *testing.T) {
	_, err := Format(-1)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestLevel_DefaultThresholds(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{0, 0},
		{0.01, 1},
		{2, 1},
		{2.5, 2},
		{3, 2},
		{4, 2},
		{5, 3},
		{6, 3},
		{6.01, 4},
		{7, 4},
		{24, 4},
		{-1, 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DefaultThresholds.Level(tc.hours), "hours=%v", tc.hours)
	}
}

func TestThresholds_Validate(t *testing.T) {
	require.NoError(t, DefaultThresholds.Validate())
	require.ErrorIs(t, Thresholds{0, 2, 4}.Validate(), ErrInvalidThresholds)
	require.ErrorIs(t, Thresholds{0, 4, 2, 6}.Validate(), ErrInvalidThresholds)
	require.ErrorIs(t, Thresholds{-1, 2, 4, 6}.Validate(), ErrInvalidThresholds)
}
