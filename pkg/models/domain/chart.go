package domain

import (
	"math"
	"time"
)

// Location is a resolved place.
type Location struct {
	Name      string
	Longitude float64
	Latitude  float64
	Source    string
}

// TrueSolarDateTime is a solar-calendar wall-clock time corrected for the
// longitude offset from the standard meridian. Wall-clock values are carried
// in time.Time with the UTC location and must be read as naive.
type TrueSolarDateTime struct {
	Standard  time.Time
	Corrected time.Time
	Offset    time.Duration
	Longitude float64
	Meridian  float64
}

// StandardZone is the fixed zone whose offset corresponds to the meridian
// (15 degrees per hour).
func StandardZone(meridian float64) *time.Location {
	seconds := int(math.Round(meridian * 240))
	return time.FixedZone("STD", seconds)
}

// Instant is the absolute moment of birth, used to compare against solar
// terms which are absolute events.
func (t TrueSolarDateTime) Instant() time.Time {
	s := t.Standard
	return time.Date(s.Year(), s.Month(), s.Day(), s.Hour(), s.Minute(), s.Second(), 0, StandardZone(t.Meridian))
}

// Chart holds the four pillars and everything they were derived from.
//
// The hour stem normally follows from the day stem and the hour branch. The
// exception is a birth between 23:00 and 23:59 when the late rat hour does
// not advance the day (the default): the day pillar stays on the calendar
// day, but the hour stem is taken from the next day's stem, so Hour() is not
// Hour(Day().Stem, 23) for those charts.
type Chart struct {
	Input     BirthInput
	SolarDate LocalDate
	Time      TrueSolarDateTime
	Location  Location
	Pillars   [4]Pillar
	Luck      LuckSchedule
}

func (c Chart) Pillar(p PillarPosition) Pillar { return c.Pillars[p] }

func (c Chart) Year() Pillar { return c.Pillars[YearPillar] }

func (c Chart) Month() Pillar { return c.Pillars[MonthPillar] }

func (c Chart) Day() Pillar { return c.Pillars[DayPillar] }

func (c Chart) Hour() Pillar { return c.Pillars[HourPillar] }

// DayMaster is the stem of the day pillar.
func (c Chart) DayMaster() Stem { return c.Pillars[DayPillar].Stem }

// Character is one of the eight glyphs of a chart.
type Character struct {
	Position PillarPosition
	IsStem   bool
	Stem     Stem
	Branch   Branch
}

func (ch Character) Element() Element {
	if ch.IsStem {
		return ch.Stem.Element()
	}
	return ch.Branch.Element()
}

func (ch Character) Polarity() Polarity {
	if ch.IsStem {
		return ch.Stem.Polarity()
	}
	return ch.Branch.Polarity()
}

// IsDayMaster reports whether this is the day stem itself.
func (ch Character) IsDayMaster() bool {
	return ch.IsStem && ch.Position == DayPillar
}

// Characters returns all eight glyphs, stem before branch, year to hour.
func (c Chart) Characters() []Character {
	out := make([]Character, 0, 8)
	for _, pos := range PillarPositions {
		p := c.Pillars[pos]
		out = append(out,
			Character{Position: pos, IsStem: true, Stem: p.Stem},
			Character{Position: pos, Branch: p.Branch},
		)
	}
	return out
}

// Branches returns the four branches in chart order.
func (c Chart) Branches() []Branch {
	return []Branch{c.Pillars[0].Branch, c.Pillars[1].Branch, c.Pillars[2].Branch, c.Pillars[3].Branch}
}

// LuckCycle is one ten-year period.
type LuckCycle struct {
	StartAge int
	Pillar   Pillar
}

// LuckSchedule describes the ten-year luck cycles.
type LuckSchedule struct {
	Forward  bool
	StartAge int
	Cycles   []LuckCycle
}
