package analysis

import (
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// StrengthResult classifies the day master against the other seven
// characters. Supporting characters share its element or generate it; the
// rest drain, control or are controlled by it.
type StrengthResult struct {
	Support int
	Oppose  int
	Strong  bool
}

func DayMasterStrength(chart domain.Chart, settings Settings) StrengthResult {
	dm := chart.DayMaster().Element()

	var r StrengthResult
	for _, ch := range chart.Characters() {
		if ch.IsDayMaster() {
			continue
		}
		switch ch.Element() {
		case dm, dm.GeneratedBy():
			r.Support++
		default:
			r.Oppose++
		}
	}
	r.Strong = r.Support >= settings.StrongThreshold
	return r
}

func (r StrengthResult) Key() string {
	if r.Strong {
		return "strong"
	}
	return "weak"
}

// Favourable lists the elements that bring the day master toward balance.
func (r StrengthResult) Favourable(dayMaster domain.Element) []domain.Element {
	if r.Strong {
		return []domain.Element{dayMaster.Generates(), dayMaster.Controls(), dayMaster.ControlledBy()}
	}
	return []domain.Element{dayMaster, dayMaster.GeneratedBy()}
}
