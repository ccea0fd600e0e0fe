package domain

// TenGod is the relation of a character to the day master (sipseong).
type TenGod int

const (
	Companion       TenGod = iota // bigyeon
	RobWealth                     // geopjae
	EatingGod                     // siksin
	HurtingOfficer                // sanggwan
	IndirectWealth                // pyeonjae
	DirectWealth                  // jeongjae
	SevenKillings                 // pyeongwan
	DirectOfficer                 // jeonggwan
	IndirectSeal                  // pyeonin
	DirectSeal                    // jeongin
)

var tenGodKeys = [...]string{
	"bigyeon", "geopjae", "siksin", "sanggwan", "pyeonjae",
	"jeongjae", "pyeongwan", "jeonggwan", "pyeonin", "jeongin",
}

var tenGodNames = [...]string{
	"Companion", "Rob Wealth", "Eating God", "Hurting Officer", "Indirect Wealth",
	"Direct Wealth", "Seven Killings", "Direct Officer", "Indirect Seal", "Direct Seal",
}

func (g TenGod) Key() string { return tenGodKeys[g] }

func (g TenGod) String() string { return tenGodNames[g] }

// TenGodOf classifies an element/polarity against the day master.
func TenGodOf(dayMaster Stem, e Element, p Polarity) TenGod {
	dm := dayMaster.Element()
	diff := 0
	if p != dayMaster.Polarity() {
		diff = 1
	}
	switch e {
	case dm:
		return Companion + TenGod(diff)
	case dm.Generates():
		return EatingGod + TenGod(diff)
	case dm.Controls():
		return IndirectWealth + TenGod(diff)
	case dm.ControlledBy():
		return SevenKillings + TenGod(diff)
	default:
		return IndirectSeal + TenGod(diff)
	}
}
