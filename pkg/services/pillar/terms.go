package pillar

import (
	"math"
	"time"
)

// Term is one of the twelve sectional solar terms (jeol) that open a month of
// the sexagenary calendar.
type Term struct {
	// Index is the month the term opens, 0 being the Tiger month (Ipchun).
	Index int
	Name  string
	// Longitude is the apparent solar longitude in degrees at the term.
	Longitude float64
	Instant   time.Time
}

var termNames = [12]string{
	"ipchun", "gyeongchip", "cheongmyeong", "ipha", "mangjong", "soseo",
	"ipchu", "baengno", "hallo", "ipdong", "daeseol", "sohan",
}

const (
	springLongitude = 315.0
	tropicalYear    = 365.2422
	unixEpochJD     = 2440587.5
	j2000           = 2451545.0
)

func termLongitude(index int) float64 {
	return math.Mod(springLongitude+30*float64(index), 360)
}

func julianDay(t time.Time) float64 {
	return float64(t.UnixNano())/float64(24*time.Hour) + unixEpochJD
}

func fromJulianDay(jd float64) time.Time {
	ns := (jd - unixEpochJD) * float64(24*time.Hour)
	return time.Unix(0, int64(math.Round(ns/1e9))*1e9).UTC()
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func radians(d float64) float64 { return d * math.Pi / 180 }

// SunLongitude is the Sun's apparent ecliptic longitude at t, in degrees:
// the geometric longitude from the VSOP87 series, reduced to FK5 and
// corrected for nutation and aberration.
func SunLongitude(t time.Time) float64 {
	return sunLongitudeJD(ephemerisDay(julianDay(t)))
}

// sunLongitudeJD takes a Julian ephemeris day (TT).
func sunLongitudeJD(jde float64) float64 {
	tau := (jde - j2000) / 365250
	L := evalVSOP(earthL, tau)
	R := evalVSOP(earthR, tau)

	lon := L*180/math.Pi + 180
	lon -= 0.09033 / 3600
	lon += nutationInLongitude(jde) / 3600
	lon -= 20.4898 / 3600 / R
	return normalizeDegrees(lon)
}

// nutationInLongitude is delta psi in arcseconds, main terms only.
func nutationInLongitude(jde float64) float64 {
	T := (jde - j2000) / 36525
	omega := radians(125.04452 - 1934.136261*T)
	sun := radians(280.4665 + 36000.7698*T)
	moon := radians(218.3165 + 481267.8813*T)
	return (-17.20-0.01742*T)*math.Sin(omega) -
		1.32*math.Sin(2*sun) -
		0.23*math.Sin(2*moon) +
		0.21*math.Sin(2*omega)
}

// DeltaT is TT minus UT in seconds at a decimal year, from the
// Espenak-Meeus polynomials. Terms are events in dynamical time, so their
// civil instants are earlier by this amount (a little over a minute in 2024).
func DeltaT(year float64) float64 {
	switch {
	case year < 1920:
		t := year - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case year < 1941:
		t := year - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case year < 1961:
		t := year - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case year < 1986:
		t := year - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case year < 2005:
		t := year - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t + 0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case year < 2050:
		t := year - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	default:
		u := (year - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-year)
	}
}

func decimalYear(jd float64) float64 { return 2000 + (jd-j2000)/365.25 }

// ephemerisDay converts a UT Julian day to TT.
func ephemerisDay(jd float64) float64 {
	return jd + DeltaT(decimalYear(jd))/86400
}

// universalDay converts a TT Julian day back to UT.
func universalDay(jde float64) float64 {
	return jde - DeltaT(decimalYear(jde))/86400
}

// solve refines a UT guess to the UT moment the Sun reaches target.
func solve(jd, target float64) float64 {
	jde := ephemerisDay(jd)
	for i := 0; i < 50; i++ {
		d := normalizeDegrees(target-sunLongitudeJD(jde)+180) - 180
		step := 58 * math.Sin(radians(d))
		jde += step
		if math.Abs(step) < 1e-7 {
			break
		}
	}
	return universalDay(jde)
}

// TermInstant returns the moment within calendar year `year` (UTC) when the
// Sun reaches the given longitude.
func TermInstant(year int, longitude float64) time.Time {
	longitude = normalizeDegrees(longitude)
	equinox := julianDay(time.Date(year, time.March, 20, 12, 0, 0, 0, time.UTC))
	guess := equinox + longitude/360*tropicalYear
	if guess >= julianDay(time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		guess -= tropicalYear
	}
	return fromJulianDay(solve(guess, longitude))
}

// SectionalIndex is the sexagenary month t falls in, 0 being the Tiger month
// that opens at Ipchun.
func SectionalIndex(t time.Time) int {
	idx := int(normalizeDegrees(SunLongitude(t)-springLongitude) / 30)
	if idx > 11 {
		idx = 11
	}
	return idx
}

// NextSectionalTerm is the first sectional term strictly after t.
func NextSectionalTerm(t time.Time) Term {
	idx := (SectionalIndex(t) + 1) % 12
	target := termLongitude(idx)
	jd := julianDay(t)
	delta := normalizeDegrees(target - SunLongitude(t))
	instant := fromJulianDay(solve(jd+delta/360*tropicalYear, target))
	return Term{Index: idx, Name: termNames[idx], Longitude: target, Instant: instant}
}

// PrevSectionalTerm is the latest sectional term at or before t.
func PrevSectionalTerm(t time.Time) Term {
	idx := SectionalIndex(t)
	target := termLongitude(idx)
	jd := julianDay(t)
	delta := normalizeDegrees(SunLongitude(t) - target)
	instant := fromJulianDay(solve(jd-delta/360*tropicalYear, target))
	return Term{Index: idx, Name: termNames[idx], Longitude: target, Instant: instant}
}

// SectionalTerms lists the twelve terms of the sexagenary year that begins
// at Ipchun of `year`, the last (Sohan) falling in January of year+1.
func SectionalTerms(year int) []Term {
	terms := make([]Term, 12)
	for i := range terms {
		y := year
		if i == 11 {
			y++
		}
		lon := termLongitude(i)
		terms[i] = Term{Index: i, Name: termNames[i], Longitude: lon, Instant: TermInstant(y, lon)}
	}
	return terms
}
