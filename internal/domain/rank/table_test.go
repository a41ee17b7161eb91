package rank

import (
	"testing"

	"github.com/questx-lab/signal/config"
	"github.com/stretchr/testify/require"
)

func TestTable_RankFor(t *testing.T) {
	table, err := NewTable(config.Default().Rank.Tiers)
	require.NoError(t, err)

	testCases := []struct {
		xp   uint64
		rank string
	}{
		{xp: 0, rank: "Observer"},
		{xp: 99, rank: "Observer"},
		{xp: 100, rank: "Ally"},
		{xp: 300, rank: "Ally"},
		{xp: 500, rank: "Field Agent"},
		{xp: 4999, rank: "Strategist"},
		{xp: 15000, rank: "Overseer"},
		{xp: 1000000, rank: "Overseer"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.rank, table.RankFor(tc.xp), "xp=%d", tc.xp)
	}
}

func TestTable_Progress(t *testing.T) {
	table, err := NewTable([]config.RankTier{
		{Name: "Field Agent", Threshold: 500},
		{Name: "Observer", Threshold: 0},
		{Name: "Ally", Threshold: 100},
	})
	require.NoError(t, err)
	require.Equal(t, "Observer", table.Lowest())
	require.Equal(t, "Ally", table.RankFor(300))

	percent, next := table.Progress("Ally", 300)
	require.Equal(t, 50.0, percent)
	require.Equal(t, "Field Agent", next)

	percent, next = table.Progress("Observer", 33)
	require.Equal(t, 33.0, percent)
	require.Equal(t, "Ally", next)

	percent, next = table.Progress("Observer", 1)
	require.Equal(t, 1.0, percent)
	require.Equal(t, "Ally", next)

	// Stale rank with more XP than the next threshold.
	percent, _ = table.Progress("Observer", 250)
	require.Equal(t, 100.0, percent)

	percent, next = table.Progress("Field Agent", 10000)
	require.Equal(t, 100.0, percent)
	require.Empty(t, next)

	// Unknown rank behaves as the lowest one.
	percent, next = table.Progress("General", 50)
	require.Equal(t, 50.0, percent)
	require.Equal(t, "Ally", next)
}

func TestTable_Rounding(t *testing.T) {
	table, err := NewTable([]config.RankTier{
		{Name: "A", Threshold: 0},
		{Name: "B", Threshold: 3},
	})
	require.NoError(t, err)

	percent, _ := table.Progress("A", 1)
	require.Equal(t, 33.33, percent)
}

func TestNewTable_Empty(t *testing.T) {
	_, err := NewTable(nil)
	require.Error(t, err)
}
