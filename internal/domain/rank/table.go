package rank

import (
	"errors"
	"math"
	"sort"

	"github.com/questx-lab/signal/config"
	"golang.org/x/exp/slices"
)

// Table maps an amount of XP to a rank. It is read-only after creation and
// safe for concurrent use.
type Table struct {
	tiers []config.RankTier
}

func NewTable(tiers []config.RankTier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, errors.New("rank table must have at least one tier")
	}

	sorted := slices.Clone(tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})

	return &Table{tiers: sorted}, nil
}

// Lowest is the rank of a new user.
func (t *Table) Lowest() string {
	return t.tiers[0].Name
}

// RankFor returns the highest rank whose threshold is not greater than xp.
func (t *Table) RankFor(xp uint64) string {
	for i := len(t.tiers) - 1; i >= 0; i-- {
		if t.tiers[i].Threshold <= xp {
			return t.tiers[i].Name
		}
	}

	return t.tiers[0].Name
}

// Progress returns the percentage towards the rank after the given one and
// the name of that rank. The top rank is always 100 percent with no next
// rank. An unknown rank is treated as the lowest one.
func (t *Table) Progress(rank string, xp uint64) (float64, string) {
	index := t.index(rank)
	if index == len(t.tiers)-1 {
		return 100, ""
	}

	current, next := t.tiers[index], t.tiers[index+1]
	if xp <= current.Threshold {
		return 0, next.Name
	}

	percent := float64(xp-current.Threshold) / float64(next.Threshold-current.Threshold) * 100
	percent = math.Max(0, math.Min(100, percent))
	return math.Round(percent*100) / 100, next.Name
}

func (t *Table) BadgeURL(rank string) string {
	return t.tiers[t.index(rank)].BadgeURL
}

func (t *Table) index(rank string) int {
	index := slices.IndexFunc(t.tiers, func(tier config.RankTier) bool {
		return tier.Name == rank
	})
	if index < 0 {
		return 0
	}

	return index
}
