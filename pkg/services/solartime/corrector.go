// Package solartime turns a naive local clock time into true solar time for
// the birth place.
package solartime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/services/geocode"
)

// DefaultMeridian is the standard meridian of UTC+9 (Korea and Japan).
const DefaultMeridian = 135.0

type Settings struct {
	// StandardMeridian is the meridian the input clock time is kept on. Change
	// it when deploying outside the UTC+9 region (default: 135)
	StandardMeridian float64
	// Enabled turns the longitude correction on (default: true)
	Enabled bool
}

func DefaultSettings() Settings {
	return Settings{
		StandardMeridian: DefaultMeridian,
		Enabled:          true,
	}
}

type Corrector interface {
	// Correct resolves the place and applies the longitude offset.
	Correct(ctx context.Context, date domain.LocalDate, clock domain.ClockTime, place string) (domain.TrueSolarDateTime, domain.Location, error)
	// CorrectAt applies the offset for a known longitude.
	CorrectAt(date domain.LocalDate, clock domain.ClockTime, longitude float64) domain.TrueSolarDateTime
	Settings() Settings
}

type corrector struct {
	resolver geocode.Resolver
	settings Settings
}

// NewCorrector expects resolver to be a memoizing one (geocode.Cache) in
// production; it is queried on every Correct call.
func NewCorrector(resolver geocode.Resolver, settings Settings) (Corrector, error) {
	if resolver == nil {
		return nil, fmt.Errorf("solar time corrector requires a place resolver")
	}
	if settings.StandardMeridian < -180 || settings.StandardMeridian > 180 {
		return nil, fmt.Errorf("standard meridian %f out of range", settings.StandardMeridian)
	}
	return &corrector{resolver: resolver, settings: settings}, nil
}

func (c *corrector) Settings() Settings {
	return c.settings
}

func (c *corrector) Correct(ctx context.Context, date domain.LocalDate, clock domain.ClockTime, place string) (domain.TrueSolarDateTime, domain.Location, error) {
	logger := zerolog.Ctx(ctx)

	loc, err := c.resolver.Resolve(ctx, place)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotResolved) {
			return domain.TrueSolarDateTime{}, domain.Location{}, err
		}
		return domain.TrueSolarDateTime{}, domain.Location{},
			fmt.Errorf("%w: %q: %v", domain.ErrLocationNotResolved, place, err)
	}

	t := c.CorrectAt(date, clock, loc.Longitude)
	logger.Debug().
		Str("place", loc.Name).
		Float64("longitude", loc.Longitude).
		Dur("offset", t.Offset).
		Str("corrected", t.Corrected.Format("2006-01-02 15:04:05")).
		Msg("applied true solar time correction")

	return t, loc, nil
}

func (c *corrector) CorrectAt(date domain.LocalDate, clock domain.ClockTime, longitude float64) domain.TrueSolarDateTime {
	standard := time.Date(date.Year, time.Month(date.Month), date.Day, clock.Hour, clock.Minute, 0, 0, time.UTC)

	var offset time.Duration
	if c.settings.Enabled {
		offset = Offset(longitude, c.settings.StandardMeridian)
	}

	return domain.TrueSolarDateTime{
		Standard:  standard,
		Corrected: standard.Add(offset),
		Offset:    offset,
		Longitude: longitude,
		Meridian:  c.settings.StandardMeridian,
	}
}

// Offset is 4 minutes per degree east of the meridian, rounded to the second.
func Offset(longitude, meridian float64) time.Duration {
	seconds := math.Round((longitude - meridian) * 240)
	return time.Duration(seconds) * time.Second
}
