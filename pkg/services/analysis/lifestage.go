package analysis

import (
	"fmt"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// LifeStage is one of the twelve phases (sibi unseong) a stem passes through
// around the branch cycle.
type LifeStage int

const (
	StageBirth LifeStage = iota
	StageBathing
	StageComingOfAge
	StageEstablishment
	StagePeak
	StageDecline
	StageIllness
	StageDeath
	StageTomb
	StageSeverance
	StageConception
	StageNurture
)

var lifeStageKeys = [...]string{
	"jangsaeng", "mokyok", "gwandae", "geollok", "jewang", "soe",
	"byeong", "sa", "myo", "jeol", "tae", "yang",
}

func (s LifeStage) Key() string { return lifeStageKeys[s] }

func (s LifeStage) String() string { return lifeStageKeys[s] }

// birthBranch is where each stem's birth stage falls. Yang stems advance
// through the branches from there, yin stems retreat.
var birthBranch = [10]domain.Branch{
	domain.BranchHae, // gap
	domain.BranchO,   // eul
	domain.BranchIn,  // byeong
	domain.BranchYu,  // jeong
	domain.BranchIn,  // mu
	domain.BranchYu,  // gi
	domain.BranchSa,  // gyeong
	domain.BranchJa,  // sin
	domain.BranchSin, // im
	domain.BranchMyo, // gye
}

func LifeStageOf(stem domain.Stem, branch domain.Branch) LifeStage {
	start := int(birthBranch[stem])
	if stem.Polarity() == domain.Yang {
		return LifeStage(mod(int(branch)-start, 12))
	}
	return LifeStage(mod(start-int(branch), 12))
}

var periodNames = [4]string{"Early years (0-15)", "Youth (15-30)", "Adulthood (30-45)", "Later years (45+)"}

// Period names the stretch of life a pillar stands for.
func Period(p domain.PillarPosition) string {
	if p < domain.YearPillar || p > domain.HourPillar {
		return fmt.Sprintf("period(%d)", int(p))
	}
	return periodNames[p]
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
