package analysis

import (
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// TenGodPlacement is the relation of one character to the day master.
type TenGodPlacement struct {
	Character domain.Character
	God       domain.TenGod
}

// TenGods classifies the seven characters other than the day master. The
// branches ja, o, sa and hae act with the polarity of their main hidden stem,
// which is the opposite of their cycle position.
func TenGods(chart domain.Chart) []TenGodPlacement {
	dm := chart.DayMaster()
	out := make([]TenGodPlacement, 0, 7)
	for _, ch := range chart.Characters() {
		if ch.IsDayMaster() {
			continue
		}
		out = append(out, TenGodPlacement{
			Character: ch,
			God:       domain.TenGodOf(dm, ch.Element(), effectivePolarity(ch)),
		})
	}
	return out
}

func effectivePolarity(ch domain.Character) domain.Polarity {
	p := ch.Polarity()
	if ch.IsStem {
		return p
	}
	switch ch.Branch {
	case domain.BranchJa, domain.BranchO, domain.BranchSa, domain.BranchHae:
		if p == domain.Yang {
			return domain.Yin
		}
		return domain.Yang
	}
	return p
}

// TenGodCounts tallies the placements by god.
func TenGodCounts(placements []TenGodPlacement) map[domain.TenGod]int {
	counts := make(map[domain.TenGod]int)
	for _, p := range placements {
		counts[p.God]++
	}
	return counts
}
