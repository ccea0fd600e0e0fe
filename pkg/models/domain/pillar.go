package domain

import "fmt"

// Pillar is one stem/branch pair of the sexagenary cycle.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// PillarFromCycle returns the pillar at the given position of the 60-cycle,
// with 0 being gap-ja. Negative positions wrap.
func PillarFromCycle(i int) Pillar {
	i = mod(i, 60)
	return Pillar{Stem: NewStem(i), Branch: NewBranch(i)}
}

// CycleIndex is the inverse of PillarFromCycle. Pairs whose stem and branch
// polarities differ never occur in the cycle and yield -1.
func (p Pillar) CycleIndex() int {
	s, b := int(p.Stem), int(p.Branch)
	if s%2 != b%2 {
		return -1
	}
	// smallest n with n%10 == s and n%12 == b
	for n := s; n < 60; n += 10 {
		if n%12 == b {
			return n
		}
	}
	return -1
}

// Key joins the stem and branch keys, e.g. "gap-ja".
func (p Pillar) Key() string {
	return p.Stem.Key() + "-" + p.Branch.Key()
}

func (p Pillar) Hanja() string {
	return p.Stem.Hanja() + p.Branch.Hanja()
}

func (p Pillar) Hangul() string {
	return p.Stem.Hangul() + p.Branch.Hangul()
}

func (p Pillar) String() string {
	return fmt.Sprintf("%s(%s)", p.Key(), p.Hanja())
}

// PillarPosition identifies one of the four pillars of a chart.
type PillarPosition int

const (
	YearPillar PillarPosition = iota
	MonthPillar
	DayPillar
	HourPillar
)

// PillarPositions is the canonical chart order.
var PillarPositions = []PillarPosition{YearPillar, MonthPillar, DayPillar, HourPillar}

var positionNames = [...]string{"year", "month", "day", "hour"}

func (p PillarPosition) String() string {
	if p < YearPillar || p > HourPillar {
		return fmt.Sprintf("position(%d)", int(p))
	}
	return positionNames[p]
}
