package pillar

import (
	"math"
	"time"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

const luckCycles = 8

// Luck counts forward for yang-year men and yin-year women, backward
// otherwise. The starting age is the distance in days to the adjacent
// sectional term divided by three.
func (c *calculator) Luck(chart domain.Chart, gender domain.Gender) domain.LuckSchedule {
	return LuckFor(chart.Year().Stem, chart.Month(), chart.Time.Instant(), gender)
}

func LuckFor(yearStem domain.Stem, month domain.Pillar, birth time.Time, gender domain.Gender) domain.LuckSchedule {
	yang := yearStem.Polarity() == domain.Yang
	forward := yang == (gender == domain.GenderMale)

	var distance time.Duration
	if forward {
		distance = NextSectionalTerm(birth).Instant.Sub(birth)
	} else {
		distance = birth.Sub(PrevSectionalTerm(birth).Instant)
	}
	days := distance.Hours() / 24
	start := int(math.Round(days / 3))
	if start < 1 {
		start = 1
	}

	step := 1
	if !forward {
		step = -1
	}
	base := month.CycleIndex()

	cycles := make([]domain.LuckCycle, luckCycles)
	for i := range cycles {
		cycles[i] = domain.LuckCycle{
			StartAge: start + 10*i,
			Pillar:   domain.PillarFromCycle(base + step*(i+1)),
		}
	}

	return domain.LuckSchedule{Forward: forward, StartAge: start, Cycles: cycles}
}
