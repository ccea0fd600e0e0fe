// Package pillar derives the four pillars of a chart from a corrected birth
// time.
//
// The year and month pillars change at the sectional solar terms, which are
// absolute instants and are compared against the standard-time moment of
// birth. The day and hour pillars follow the true solar wall clock.
package pillar

import (
	"fmt"
	"time"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

const (
	MinYear = 1900
	MaxYear = 2100
)

// dayEpoch (1900-01-01) is gap-sul, position 10 of the cycle.
var dayEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const dayEpochCycle = 10

type Settings struct {
	// LateRatHourAdvancesDay moves births from 23:00 to 23:59 onto the next
	// day's pillar (default: false, the day pillar follows the calendar date)
	LateRatHourAdvancesDay bool
}

func DefaultSettings() Settings {
	return Settings{}
}

type Calculator interface {
	// Compute fills the pillars and the time of a chart. Input, solar date
	// and location are left for the caller.
	Compute(t domain.TrueSolarDateTime) (domain.Chart, error)
	// Luck derives the ten-year luck cycles of a computed chart.
	Luck(chart domain.Chart, gender domain.Gender) domain.LuckSchedule
}

type calculator struct {
	settings Settings
}

func NewCalculator(settings Settings) Calculator {
	return &calculator{settings: settings}
}

func (c *calculator) Compute(t domain.TrueSolarDateTime) (domain.Chart, error) {
	if y := t.Corrected.Year(); y < MinYear || y > MaxYear {
		return domain.Chart{}, fmt.Errorf("%w: year %d is outside %d-%d", domain.ErrInvalidSolarDate, y, MinYear, MaxYear)
	}

	instant := t.Instant()
	year := SexagenaryYear(instant)
	month := SectionalIndex(instant)

	wall := t.Corrected
	day := wall
	if c.settings.LateRatHourAdvancesDay && wall.Hour() == 23 {
		day = wall.AddDate(0, 0, 1)
	}
	dayPillar := Day(day.Year(), day.Month(), day.Day())

	// the rat hour that starts at 23:00 belongs to the following day's stem
	// group in both schools
	hourStemDay := dayPillar
	if wall.Hour() == 23 && !c.settings.LateRatHourAdvancesDay {
		next := wall.AddDate(0, 0, 1)
		hourStemDay = Day(next.Year(), next.Month(), next.Day())
	}

	var chart domain.Chart
	chart.Time = t
	chart.Pillars[domain.YearPillar] = Year(year)
	chart.Pillars[domain.MonthPillar] = Month(chart.Pillars[domain.YearPillar].Stem, month)
	chart.Pillars[domain.DayPillar] = dayPillar
	chart.Pillars[domain.HourPillar] = Hour(hourStemDay.Stem, wall.Hour())
	return chart, nil
}

// SexagenaryYear is the year whose Ipchun most recently passed at t.
func SexagenaryYear(t time.Time) int {
	year := t.Year()
	// Daeseol and Sohan months straddle new year; in January and February
	// they still belong to the previous year
	if t.Month() <= time.February && SectionalIndex(t) >= 10 {
		year--
	}
	return year
}

// Year returns the pillar of a sexagenary year; 1984 is gap-ja.
func Year(year int) domain.Pillar {
	return domain.PillarFromCycle(year - 4)
}

// Month returns the pillar of month m (0 = Tiger month) of a year with the
// given stem. The Tiger month's stem is fixed by the year stem group.
func Month(yearStem domain.Stem, m int) domain.Pillar {
	first := (int(yearStem)%5*2 + 2) % 10
	return domain.Pillar{
		Stem:   domain.NewStem(first + m),
		Branch: domain.NewBranch(int(domain.BranchIn) + m),
	}
}

// Day returns the pillar of a solar calendar date, counted from the epoch by
// whole days.
func Day(year int, month time.Month, day int) domain.Pillar {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(dayEpoch) / (24 * time.Hour))
	return domain.PillarFromCycle(dayEpochCycle + days)
}

// HourBranch maps a wall-clock hour to its two-hour slot; 23:00-00:59 is the
// rat hour.
func HourBranch(hour int) domain.Branch {
	return domain.NewBranch((hour + 1) / 2)
}

// Hour returns the hour pillar; its stem is fixed by the day stem group and
// the slot.
func Hour(dayStem domain.Stem, hour int) domain.Pillar {
	branch := HourBranch(hour)
	return domain.Pillar{
		Stem:   domain.NewStem(int(dayStem)%5*2 + int(branch)),
		Branch: branch,
	}
}
