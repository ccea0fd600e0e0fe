// Package calendar converts between the Korean lunisolar calendar and the
// proleptic Gregorian calendar.
//
// The conversion table covers lunar years 1900 through 2100, which is solar
// 1900-01-31 through 2101-01-28. Birth dates are further capped at
// MaxSolarDate so that every accepted date also has pillars; the tail of
// lunar 2100 still converts but is not a valid birth date.
package calendar

import (
	"fmt"
	"time"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// LunarDate is a date in the lunisolar calendar.
type LunarDate struct {
	Date        domain.LocalDate
	IsLeapMonth bool
}

func (l LunarDate) String() string {
	if l.IsLeapMonth {
		return l.Date.String() + " (leap)"
	}
	return l.Date.String()
}

type Converter interface {
	// LunarToSolar fails with domain.ErrInvalidCalendarDate when the
	// year/month/day/leap combination does not exist in the table.
	LunarToSolar(date domain.LocalDate, leap bool) (domain.LocalDate, error)
	SolarToLunar(date domain.LocalDate) (LunarDate, error)
	ValidateSolar(date domain.LocalDate) error
	// SolarDateOf converts lunar inputs and passes solar inputs through.
	SolarDateOf(input domain.BirthInput) (domain.LocalDate, error)
	LeapMonth(year int) (int, error)
	MonthLength(year, month int, leap bool) (int, error)
}

type tableConverter struct {
	// yearStart[i] is the day number of lunar new year of MinLunarYear+i
	yearStart []int
	lastDay   int
}

// MaxSolarDate is the last accepted birth date, the final day of the last
// year the pillar calculator supports.
var MaxSolarDate = domain.LocalDate{Year: 2100, Month: 12, Day: 31}

var firstDay = dayNumber(domain.LocalDate{Year: 1900, Month: 1, Day: 31})

// NewConverter builds the per-year offsets once; the result is safe for
// concurrent use.
func NewConverter() Converter {
	c := &tableConverter{yearStart: make([]int, 0, len(lunarYears))}
	day := firstDay
	for y := MinLunarYear; y <= MaxLunarYear; y++ {
		c.yearStart = append(c.yearStart, day)
		day += lunarYearDays(y)
	}
	c.lastDay = min(day-1, dayNumber(MaxSolarDate))
	return c
}

func (c *tableConverter) LeapMonth(year int) (int, error) {
	if year < MinLunarYear || year > MaxLunarYear {
		return 0, fmt.Errorf("%w: lunar year %d outside supported range %d-%d",
			domain.ErrInvalidCalendarDate, year, MinLunarYear, MaxLunarYear)
	}
	return leapMonthOf(year), nil
}

func (c *tableConverter) MonthLength(year, month int, leap bool) (int, error) {
	lm, err := c.LeapMonth(year)
	if err != nil {
		return 0, err
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", domain.ErrInvalidCalendarDate, month)
	}
	if leap {
		if lm != month {
			return 0, fmt.Errorf("%w: lunar year %d has no leap month %d",
				domain.ErrInvalidCalendarDate, year, month)
		}
		return leapMonthDays(year), nil
	}
	return regularMonthDays(year, month), nil
}

func (c *tableConverter) LunarToSolar(date domain.LocalDate, leap bool) (domain.LocalDate, error) {
	length, err := c.MonthLength(date.Year, date.Month, leap)
	if err != nil {
		return domain.LocalDate{}, err
	}
	if date.Day < 1 || date.Day > length {
		return domain.LocalDate{}, fmt.Errorf("%w: lunar %s has %d days",
			domain.ErrInvalidCalendarDate, date, length)
	}

	day := c.yearStart[date.Year-MinLunarYear]
	lm := leapMonthOf(date.Year)
	for m := 1; m < date.Month; m++ {
		day += regularMonthDays(date.Year, m)
		if m == lm {
			day += leapMonthDays(date.Year)
		}
	}
	if leap {
		day += regularMonthDays(date.Year, date.Month)
	}
	day += date.Day - 1

	return fromDayNumber(day), nil
}

func (c *tableConverter) SolarToLunar(date domain.LocalDate) (LunarDate, error) {
	if err := c.ValidateSolar(date); err != nil {
		return LunarDate{}, err
	}
	day := dayNumber(date)

	// binary search for the lunar year containing day
	lo, hi := 0, len(c.yearStart)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.yearStart[mid] <= day {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	year := MinLunarYear + lo
	rest := day - c.yearStart[lo]

	lm := leapMonthOf(year)
	for m := 1; m <= 12; m++ {
		n := regularMonthDays(year, m)
		if rest < n {
			return LunarDate{Date: domain.LocalDate{Year: year, Month: m, Day: rest + 1}}, nil
		}
		rest -= n
		if m == lm {
			n = leapMonthDays(year)
			if rest < n {
				return LunarDate{Date: domain.LocalDate{Year: year, Month: m, Day: rest + 1}, IsLeapMonth: true}, nil
			}
			rest -= n
		}
	}
	// unreachable while yearStart and the table agree
	return LunarDate{}, fmt.Errorf("%w: %s could not be placed in lunar year %d", domain.ErrInvalidSolarDate, date, year)
}

func (c *tableConverter) ValidateSolar(date domain.LocalDate) error {
	if !domain.SolarDateExists(date) {
		return fmt.Errorf("%w: %s does not exist", domain.ErrInvalidSolarDate, date)
	}
	day := dayNumber(date)
	if day < firstDay || day > c.lastDay {
		return fmt.Errorf("%w: %s outside supported range %s to %s", domain.ErrInvalidSolarDate,
			date, fromDayNumber(firstDay), fromDayNumber(c.lastDay))
	}
	return nil
}

func (c *tableConverter) SolarDateOf(input domain.BirthInput) (domain.LocalDate, error) {
	if !input.IsLunar {
		if err := c.ValidateSolar(input.Date); err != nil {
			return domain.LocalDate{}, err
		}
		return input.Date, nil
	}
	solar, err := c.LunarToSolar(input.Date, input.IsLeapMonth)
	if err != nil {
		return domain.LocalDate{}, err
	}
	if err := c.ValidateSolar(solar); err != nil {
		return domain.LocalDate{}, fmt.Errorf("lunar %s: %w", input.Date, err)
	}
	return solar, nil
}

// dayNumber counts days since 1970-01-01.
func dayNumber(d domain.LocalDate) int {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return int(t.Unix() / 86400)
}

func fromDayNumber(n int) domain.LocalDate {
	t := time.Unix(int64(n)*86400, 0).UTC()
	return domain.LocalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
