package analysis

import (
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// BalancedCount is the expected count of each element when the eight
// characters are spread evenly.
const BalancedCount = 8.0 / 5.0

// ElementBalance is the tally of the five elements over the eight characters.
type ElementBalance struct {
	Counts  [5]int
	Missing []domain.Element
	Excess  []domain.Element
}

func Balance(chart domain.Chart, settings Settings) ElementBalance {
	var b ElementBalance
	for _, ch := range chart.Characters() {
		b.Counts[ch.Element()]++
	}
	for _, e := range domain.Elements {
		switch n := b.Counts[e]; {
		case n <= settings.MissingThreshold:
			b.Missing = append(b.Missing, e)
		case n >= settings.ExcessThreshold:
			b.Excess = append(b.Excess, e)
		}
	}
	return b
}

func (b ElementBalance) Count(e domain.Element) int {
	return b.Counts[e]
}

func (b ElementBalance) Total() int {
	total := 0
	for _, n := range b.Counts {
		total += n
	}
	return total
}

// Deviation is the difference from the balanced count.
func (b ElementBalance) Deviation(e domain.Element) float64 {
	return float64(b.Counts[e]) - BalancedCount
}

func (b ElementBalance) IsBalanced() bool {
	return len(b.Missing) == 0 && len(b.Excess) == 0
}
