package domain

import (
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "남", "남자":
		return GenderMale, nil
	case "female", "f", "여", "여자":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: unknown gender %q", ErrInputIncomplete, s)
	}
}

// LocalDate is a calendar date without a calendar system attached; it may hold
// a lunar date, so it is never normalized through time.Date.
type LocalDate struct {
	Year  int
	Month int
	Day   int
}

func ParseLocalDate(s string) (LocalDate, error) {
	var d LocalDate
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return LocalDate{}, fmt.Errorf("%w: date %q is not in YYYY-MM-DD form", ErrInputIncomplete, s)
	}
	return d, nil
}

func (d LocalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ClockTime is a naive wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	var c ClockTime
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &c.Hour, &c.Minute); err != nil {
		return ClockTime{}, fmt.Errorf("%w: time %q is not in HH:MM form", ErrInputIncomplete, s)
	}
	if !c.Valid() {
		return ClockTime{}, fmt.Errorf("%w: time %q is out of range", ErrInputIncomplete, s)
	}
	return c, nil
}

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BirthInput is the immutable request for one subject.
type BirthInput struct {
	Name        string
	Date        LocalDate
	Time        ClockTime
	IsLunar     bool
	IsLeapMonth bool
	Gender      Gender
	PlaceName   string
}

// Validate checks that every field the pipeline depends on is present and
// well-formed. Calendar existence of a lunar date is left to the converter.
func (b BirthInput) Validate() error {
	var missing []string
	if b.Date.IsZero() {
		missing = append(missing, "birth date")
	}
	if strings.TrimSpace(b.PlaceName) == "" {
		missing = append(missing, "place name")
	}
	if b.Gender != GenderMale && b.Gender != GenderFemale {
		missing = append(missing, "gender")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInputIncomplete, strings.Join(missing, ", "))
	}
	if !b.Time.Valid() {
		return fmt.Errorf("%w: birth time %s is not a valid clock time", ErrInputIncomplete, b.Time)
	}
	if !b.IsLunar && !SolarDateExists(b.Date) {
		return fmt.Errorf("%w: %s does not exist", ErrInvalidSolarDate, b.Date)
	}
	return nil
}

// Normalized drops the leap-month flag from solar inputs.
func (b BirthInput) Normalized() BirthInput {
	if !b.IsLunar {
		b.IsLeapMonth = false
	}
	b.PlaceName = strings.TrimSpace(b.PlaceName)
	b.Name = strings.TrimSpace(b.Name)
	return b
}

// SolarDateExists reports whether the proleptic Gregorian date is real.
func SolarDateExists(d LocalDate) bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}
