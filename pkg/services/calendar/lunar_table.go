package calendar

// lunarYears encodes lunar years 1900 through 2100, one entry per year.
//
//	bits 0-3   leap month number, 0 when the year has no leap month
//	bits 4-15  month lengths for months 1..12, bit 15 is month 1; set = 30 days, clear = 29
//	bit 16     length of the leap month; set = 30 days
//
// Lunar 1900-01-01 falls on solar 1900-01-31.
//
// Month starts are the civil dates of the new moon in Korean time: Seoul mean
// time before April 1908, UTC+8:30 until 1912 and again from March 1954 to
// August 1961, UTC+9 otherwise. Leap months follow the no-principal-term rule
// within each winter solstice year. This is why some years differ from the
// Chinese calendar, which counts days at UTC+8 (2012 and 2017 even place the
// leap month differently).
var lunarYears = [...]uint32{
	0x04bd8, 0x04ae0, 0x0a570, 0x054e5, 0x0d2a0, 0x0e950, 0x16554, 0x056a0, 0x0aad0, 0x055d2, // 1900
	0x04ae0, 0x0a5d6, 0x0a4d0, 0x0d250, 0x0da95, 0x0b550, 0x056a0, 0x0ada2, 0x095d0, 0x04bb7, // 1910
	0x049b0, 0x0a4b0, 0x0b4b5, 0x06a90, 0x0ad40, 0x0bb54, 0x02b60, 0x095b0, 0x05372, 0x04970, // 1920
	0x06566, 0x0e4a0, 0x0ea50, 0x16a95, 0x05b50, 0x02b60, 0x18ae3, 0x092e0, 0x1c8d7, 0x0c950, // 1930
	0x0d4a0, 0x1d8a6, 0x0b690, 0x056d0, 0x125b4, 0x025d0, 0x092d0, 0x0d2b2, 0x0a950, 0x0d557, // 1940
	0x0b4a0, 0x0b550, 0x15555, 0x04db0, 0x025b0, 0x18573, 0x052b0, 0x0a9b8, 0x06950, 0x06aa0, // 1950
	0x0aea6, 0x0ab50, 0x04b60, 0x0aae4, 0x0a570, 0x05270, 0x07263, 0x0d950, 0x06b57, 0x056a0, // 1960
	0x09ad0, 0x04dd5, 0x04ae0, 0x0a4e0, 0x0d4d4, 0x0d250, 0x0d598, 0x0b540, 0x0d6a0, 0x195a6, // 1970
	0x095b0, 0x049b0, 0x0a9b4, 0x0a4b0, 0x0b27a, 0x06a50, 0x06d40, 0x0b756, 0x02b60, 0x095b0, // 1980
	0x04b75, 0x04970, 0x064b0, 0x074a3, 0x0ea50, 0x06d98, 0x05ad0, 0x02b60, 0x096e5, 0x092e0, // 1990
	0x0c960, 0x0e954, 0x0d4a0, 0x0da50, 0x07552, 0x056c0, 0x0abb7, 0x025d0, 0x092d0, 0x0cab5, // 2000
	0x0a950, 0x0b4a0, 0x1b4a3, 0x0b550, 0x055d9, 0x04ba0, 0x0a5b0, 0x05575, 0x052b0, 0x0a950, // 2010
	0x0b954, 0x06aa0, 0x0ad50, 0x06b52, 0x04b60, 0x0a6e6, 0x0a570, 0x05270, 0x06a65, 0x0d930, // 2020
	0x05aa0, 0x0b6a3, 0x096d0, 0x04afb, 0x04ae0, 0x0a4d0, 0x1d0d6, 0x0d250, 0x0d520, 0x0dd45, // 2030
	0x0b6a0, 0x096d0, 0x055b2, 0x049b0, 0x0a577, 0x0a4b0, 0x0b250, 0x1b255, 0x06d40, 0x0ada0, // 2040
	0x18b63, 0x09570, 0x14978, 0x04970, 0x064b0, 0x168a6, 0x0ea50, 0x06b20, 0x1aac4, 0x0ab60, // 2050
	0x09370, 0x052e3, 0x0c960, 0x0d557, 0x0d4a0, 0x0da50, 0x05d55, 0x056a0, 0x0aad0, 0x095d4, // 2060
	0x092d0, 0x0c9b8, 0x0a950, 0x0b4a0, 0x0b6a6, 0x0ad50, 0x055a0, 0x0aba4, 0x0a5b0, 0x052b0, // 2070
	0x0b2b3, 0x0a930, 0x07557, 0x06aa0, 0x0ad50, 0x14b55, 0x04b60, 0x0a570, 0x054f4, 0x05260, // 2080
	0x0e968, 0x0d530, 0x05aa0, 0x1aaa6, 0x096d0, 0x04ae0, 0x0aad4, 0x0a4d0, 0x0d260, 0x0f253, // 2090
	0x0d520, // 2100
}

const (
	MinLunarYear = 1900
	MaxLunarYear = MinLunarYear + len(lunarYears) - 1
)

func yearInfo(year int) uint32 {
	return lunarYears[year-MinLunarYear]
}

func leapMonthOf(year int) int {
	return int(yearInfo(year) & 0xf)
}

func leapMonthDays(year int) int {
	if leapMonthOf(year) == 0 {
		return 0
	}
	if yearInfo(year)&0x10000 != 0 {
		return 30
	}
	return 29
}

func regularMonthDays(year, month int) int {
	if yearInfo(year)&(0x10000>>uint(month)) != 0 {
		return 30
	}
	return 29
}

func lunarYearDays(year int) int {
	total := leapMonthDays(year)
	for m := 1; m <= 12; m++ {
		total += regularMonthDays(year, m)
	}
	return total
}
