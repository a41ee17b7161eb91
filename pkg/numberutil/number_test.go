package numberutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 1, Clamp(0, 1, 100))
	require.Equal(t, 100, Clamp(1000, 1, 100))
	require.Equal(t, 20, Clamp(20, 1, 100))
}

func TestCeilDiv(t *testing.T) {
	require.Equal(t, int64(0), CeilDiv(0, 20))
	require.Equal(t, int64(1), CeilDiv(1, 20))
	require.Equal(t, int64(1), CeilDiv(20, 20))
	require.Equal(t, int64(2), CeilDiv(21, 20))
	require.Equal(t, int64(0), CeilDiv(5, 0))
}

func TestRound2(t *testing.T) {
	require.Equal(t, 50.0, Round2(50))
	require.Equal(t, 33.33, Round2(100.0/3))
	require.Equal(t, 66.67, Round2(200.0/3))
}

func TestAbsInt64(t *testing.T) {
	require.Equal(t, int64(5), AbsInt64(-5))
	require.Equal(t, int64(5), AbsInt64(5))
}
