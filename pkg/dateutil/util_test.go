package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStardate(t *testing.T) {
	ts := time.Date(2024, time.February, 3, 7, 5, 0, 0, time.UTC)
	require.Equal(t, "2024.034.0705", Stardate(ts))

	// Converted to UTC first.
	loc := time.FixedZone("UTC+7", 7*3600)
	ts = time.Date(2024, time.January, 1, 3, 0, 0, 0, loc)
	require.Equal(t, "2023.365.2000", Stardate(ts))
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2024, time.May, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, time.May, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)

	require.True(t, IsSameDay(a, b))
	require.False(t, IsSameDay(b, c))
	require.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), StartOfDay(b))
}

func TestNextDay(t *testing.T) {
	ts := time.Date(2024, time.December, 31, 18, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), NextDay(ts))
}
