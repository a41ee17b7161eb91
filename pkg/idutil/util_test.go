package idutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := RequestID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestNew(t *testing.T) {
	require.Len(t, New(), 36)
	require.NotEqual(t, New(), New())
}
