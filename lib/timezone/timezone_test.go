package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStamp(t *testing.T) {
	cases := []struct {
		in       time.Time
		expected string
	}{
		{
			in:       time.Date(2024, time.December, 25, 6, 30, 0, 0, time.UTC),
			expected: "2024-12-25 14:30:00",
		},
		{
			// crosses midnight when shifted to GMT+8
			in:       time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC),
			expected: "2025-01-01 04:00:00",
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, Stamp(test.in))
	}
}

func TestMonthDir(t *testing.T) {
	in := time.Date(2024, time.January, 31, 18, 0, 0, 0, time.UTC)
	// 18:00 UTC on the 31st is already February in Kuala Lumpur
	require.Equal(t, "2024_02", MonthDir(in))
}

func TestNowUsesLocation(t *testing.T) {
	_, offset := Now().Zone()
	require.Equal(t, 8*60*60, offset)
}
