package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

func date(y, m, d int) domain.LocalDate {
	return domain.LocalDate{Year: y, Month: m, Day: d}
}

func TestLunarToSolar_ReferencePairs(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		name  string
		lunar domain.LocalDate
		leap  bool
		solar domain.LocalDate
	}{
		{name: "table epoch", lunar: date(1900, 1, 1), solar: date(1900, 1, 31)},
		{name: "1990 new year", lunar: date(1990, 1, 1), solar: date(1990, 1, 27)},
		{name: "2000 new year", lunar: date(2000, 1, 1), solar: date(2000, 2, 5)},
		{name: "2024 new year", lunar: date(2024, 1, 1), solar: date(2024, 2, 10)},
		{name: "2020 leap fourth month", lunar: date(2020, 4, 1), leap: true, solar: date(2020, 5, 23)},
		{name: "2023 leap second month", lunar: date(2023, 2, 1), leap: true, solar: date(2023, 3, 22)},
		{name: "1990 leap fifth month", lunar: date(1990, 5, 1), leap: true, solar: date(1990, 6, 23)},
		{name: "last supported day", lunar: date(2100, 12, 29), solar: date(2101, 1, 28)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := conv.LunarToSolar(tc.lunar, tc.leap)
			require.NoError(t, err)
			assert.Equal(t, tc.solar, got)
		})
	}
}

// Years where a new moon or principal term falls between 23:00 and midnight
// UTC+8, so the Korean calendar differs from the Chinese one.
func TestLunarToSolar_KoreanDivergentYears(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		name  string
		lunar domain.LocalDate
		leap  bool
		solar domain.LocalDate
	}{
		{name: "1997 new year", lunar: date(1997, 1, 1), solar: date(1997, 2, 8)},
		{name: "2027 new year", lunar: date(2027, 1, 1), solar: date(2027, 2, 7)},
		{name: "1990 ninth month", lunar: date(1990, 9, 1), solar: date(1990, 10, 19)},
		{name: "2012 leap third month", lunar: date(2012, 3, 1), leap: true, solar: date(2012, 4, 21)},
		{name: "2012 fourth month", lunar: date(2012, 4, 1), solar: date(2012, 5, 21)},
		{name: "2017 leap fifth month", lunar: date(2017, 5, 1), leap: true, solar: date(2017, 6, 24)},
		{name: "2017 sixth month", lunar: date(2017, 6, 1), solar: date(2017, 7, 23)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := conv.LunarToSolar(tc.lunar, tc.leap)
			require.NoError(t, err)
			assert.Equal(t, tc.solar, got)
		})
	}

	lm, err := conv.LeapMonth(2017)
	require.NoError(t, err)
	assert.Equal(t, 5, lm)

	lm, err = conv.LeapMonth(2012)
	require.NoError(t, err)
	assert.Equal(t, 3, lm)

	_, err = conv.LunarToSolar(date(2017, 6, 1), true)
	assert.ErrorIs(t, err, domain.ErrInvalidCalendarDate)

	got, err := conv.SolarToLunar(date(2017, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, LunarDate{Date: date(2017, 5, 8), IsLeapMonth: true}, got)

	got, err = conv.SolarToLunar(date(1997, 2, 7))
	require.NoError(t, err)
	assert.Equal(t, LunarDate{Date: date(1996, 12, 30)}, got)
}

func TestLunarToSolar_RejectsNonexistentDates(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		name  string
		lunar domain.LocalDate
		leap  bool
	}{
		{name: "leap month that did not occur", lunar: date(2024, 4, 1), leap: true},
		{name: "leap flag on wrong month", lunar: date(2020, 5, 1), leap: true},
		{name: "day past short month", lunar: date(1990, 1, 30)},
		{name: "day past short leap month", lunar: date(2023, 2, 30), leap: true},
		{name: "month thirteen", lunar: date(2000, 13, 1)},
		{name: "day zero", lunar: date(2000, 1, 0)},
		{name: "before table", lunar: date(1899, 12, 1)},
		{name: "after table", lunar: date(2101, 1, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := conv.LunarToSolar(tc.lunar, tc.leap)
			assert.ErrorIs(t, err, domain.ErrInvalidCalendarDate)
		})
	}
}

func TestSolarToLunar(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		solar domain.LocalDate
		want  LunarDate
	}{
		{solar: date(1990, 1, 27), want: LunarDate{Date: date(1990, 1, 1)}},
		{solar: date(1990, 5, 15), want: LunarDate{Date: date(1990, 4, 21)}},
		{solar: date(1990, 7, 1), want: LunarDate{Date: date(1990, 5, 9), IsLeapMonth: true}},
		{solar: date(2020, 6, 1), want: LunarDate{Date: date(2020, 4, 10), IsLeapMonth: true}},
		{solar: date(2024, 2, 9), want: LunarDate{Date: date(2023, 12, 30)}},
	}

	for _, tc := range tests {
		t.Run(tc.solar.String(), func(t *testing.T) {
			got, err := conv.SolarToLunar(tc.solar)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRoundTrip_EveryDayOfSampleYears(t *testing.T) {
	conv := NewConverter()

	for _, year := range []int{1950, 1990, 2020, 2023} {
		for m := 1; m <= 12; m++ {
			for d := 1; d <= 31; d++ {
				solar := date(year, m, d)
				if !domain.SolarDateExists(solar) {
					continue
				}
				lunar, err := conv.SolarToLunar(solar)
				require.NoError(t, err)
				back, err := conv.LunarToSolar(lunar.Date, lunar.IsLeapMonth)
				require.NoError(t, err)
				require.Equal(t, solar, back, "round trip through %s", lunar)
			}
		}
	}
}

func TestValidateSolar(t *testing.T) {
	conv := NewConverter()

	assert.NoError(t, conv.ValidateSolar(date(2024, 2, 29)))
	assert.ErrorIs(t, conv.ValidateSolar(date(2023, 2, 29)), domain.ErrInvalidSolarDate)
	assert.ErrorIs(t, conv.ValidateSolar(date(2023, 4, 31)), domain.ErrInvalidSolarDate)
	assert.ErrorIs(t, conv.ValidateSolar(date(2023, 13, 1)), domain.ErrInvalidSolarDate)
	assert.ErrorIs(t, conv.ValidateSolar(date(1900, 1, 30)), domain.ErrInvalidSolarDate)
	assert.ErrorIs(t, conv.ValidateSolar(date(2101, 1, 29)), domain.ErrInvalidSolarDate)
}

func TestValidateSolar_MatchesPillarYears(t *testing.T) {
	conv := NewConverter()

	assert.NoError(t, conv.ValidateSolar(MaxSolarDate))
	// still inside lunar 2100, but there are no pillars for 2101
	assert.ErrorIs(t, conv.ValidateSolar(date(2101, 1, 10)), domain.ErrInvalidSolarDate)
	assert.ErrorIs(t, conv.ValidateSolar(date(2101, 1, 28)), domain.ErrInvalidSolarDate)

	_, err := conv.SolarToLunar(date(2101, 1, 10))
	assert.ErrorIs(t, err, domain.ErrInvalidSolarDate)

	_, err = conv.SolarDateOf(domain.BirthInput{Date: date(2100, 12, 29), IsLunar: true})
	assert.ErrorIs(t, err, domain.ErrInvalidSolarDate)
}

func TestSolarDateOf(t *testing.T) {
	conv := NewConverter()

	t.Run("solar passes through", func(t *testing.T) {
		got, err := conv.SolarDateOf(domain.BirthInput{Date: date(1990, 1, 1)})
		require.NoError(t, err)
		assert.Equal(t, date(1990, 1, 1), got)
	})

	t.Run("lunar converts", func(t *testing.T) {
		got, err := conv.SolarDateOf(domain.BirthInput{Date: date(1990, 1, 1), IsLunar: true})
		require.NoError(t, err)
		assert.Equal(t, date(1990, 1, 27), got)
	})

	t.Run("bad solar date", func(t *testing.T) {
		_, err := conv.SolarDateOf(domain.BirthInput{Date: date(1990, 2, 30)})
		assert.ErrorIs(t, err, domain.ErrInvalidSolarDate)
	})
}

func TestMonthLength(t *testing.T) {
	conv := NewConverter()

	n, err := conv.MonthLength(1990, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 29, n)

	n, err = conv.MonthLength(2023, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = conv.MonthLength(2023, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 29, n)

	lm, err := conv.LeapMonth(2025)
	require.NoError(t, err)
	assert.Equal(t, 6, lm)
}
