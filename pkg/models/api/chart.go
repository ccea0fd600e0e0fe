package api

// BirthRequest describes one subject. Date is YYYY-MM-DD and Time HH:MM in
// the calendar named by Calendar ("solar", the default, or "lunar").
type BirthRequest struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Calendar  string `json:"calendar,omitempty"`
	LeapMonth bool   `json:"leap_month,omitempty"`
	Gender    string `json:"gender"`
	Place     string `json:"place"`
}

type CompatibilityRequest struct {
	A BirthRequest `json:"a"`
	B BirthRequest `json:"b"`
}

type Pillar struct {
	Position string `json:"position,omitempty"`
	Key      string `json:"key"`
	Hanja    string `json:"hanja"`
	Hangul   string `json:"hangul"`
	Element  string `json:"element"`
}

type Location struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude,omitempty"`
	Source    string  `json:"source"`
}

type LuckCycle struct {
	StartAge int    `json:"start_age"`
	Pillar   Pillar `json:"pillar"`
}

type Luck struct {
	Direction string      `json:"direction"`
	StartAge  int         `json:"start_age"`
	Cycles    []LuckCycle `json:"cycles"`
}

type Chart struct {
	Name          string   `json:"name,omitempty"`
	Gender        string   `json:"gender"`
	SolarDate     string   `json:"solar_date"`
	BirthTime     string   `json:"birth_time"`
	TrueSolarTime string   `json:"true_solar_time"`
	OffsetMinutes float64  `json:"offset_minutes"`
	Location      Location `json:"location"`
	Pillars       []Pillar `json:"pillars"`
	Luck          Luck     `json:"luck"`
}

type Detail struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

type Section struct {
	Category string         `json:"category"`
	Subject  string         `json:"subject"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Summary  map[string]any `json:"summary,omitempty"`
	Details  []Detail       `json:"details,omitempty"`
}

type SubScore struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Directional bool   `json:"directional"`
}

type Compatibility struct {
	Score     int        `json:"score"`
	Raw       int        `json:"raw"`
	SubScores []SubScore `json:"sub_scores"`
}

type SubjectStatus struct {
	Label  string `json:"label"`
	Name   string `json:"name,omitempty"`
	Failed bool   `json:"failed"`
	Stage  string `json:"stage,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Report struct {
	Title         string          `json:"title"`
	Summary       string          `json:"summary"`
	Charts        []Chart         `json:"charts"`
	Subjects      []SubjectStatus `json:"subjects"`
	Sections      []Section       `json:"sections"`
	Compatibility *Compatibility  `json:"compatibility,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// Error is the body of every non-2xx response. Subjects is set when a
// two-subject request failed for one or both subjects.
type Error struct {
	Error    string          `json:"error"`
	Kind     string          `json:"kind"`
	Subject  string          `json:"subject,omitempty"`
	Subjects []SubjectStatus `json:"subjects,omitempty"`
}

type CalendarDate struct {
	Solar     string `json:"solar"`
	Lunar     string `json:"lunar"`
	LeapMonth bool   `json:"leap_month"`
}
