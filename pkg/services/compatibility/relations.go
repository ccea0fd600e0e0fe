package compatibility

import (
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

type Relation int

const (
	Neutral Relation = iota
	Harmony
	Clash
)

func (r Relation) String() string {
	switch r {
	case Harmony:
		return "harmony"
	case Clash:
		return "clash"
	default:
		return "neutral"
	}
}

// StemRelation: stems five apart combine (gap-gi, eul-gyeong, ...), stems six
// apart clash (gap-gyeong, eul-sin, ...).
func StemRelation(a, b domain.Stem) Relation {
	switch abs(int(a) - int(b)) {
	case 5:
		return Harmony
	case 6:
		return Clash
	default:
		return Neutral
	}
}

// BranchRelation: the six harmonies (ja-chuk, in-hae, ...) and members of the
// same three-harmony trine (in-o-sul, ...) harmonise; opposite branches clash.
func BranchRelation(a, b domain.Branch) Relation {
	x, y := int(a), int(b)
	switch {
	case abs(x-y) == 6:
		return Clash
	case (x+y)%12 == 1:
		return Harmony
	case x != y && x%4 == y%4:
		return Harmony
	default:
		return Neutral
	}
}

// Flow describes how A's day master element relates to B's. Unlike the other
// relations it depends on argument order.
type Flow int

const (
	FlowNone Flow = iota
	FlowSame
	FlowGenerated  // B feeds A
	FlowGenerates  // A feeds B
	FlowControlled // B restrains A
	FlowControls   // A restrains B
)

var flowKeys = [...]string{"none", "same", "generated", "generates", "controlled", "controls"}

func (f Flow) Key() string { return flowKeys[f] }

func FlowBetween(a, b domain.Element) Flow {
	switch b {
	case a:
		return FlowSame
	case a.GeneratedBy():
		return FlowGenerated
	case a.Generates():
		return FlowGenerates
	case a.ControlledBy():
		return FlowControlled
	case a.Controls():
		return FlowControls
	}
	return FlowNone
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
