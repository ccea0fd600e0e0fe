package domain

import (
	"fmt"
	"sort"
)

// Category tags an analysis section. The numeric order is the display order.
type Category int

const (
	CategoryIdentity Category = iota
	CategoryElements
	CategoryStrength
	CategoryLifeStage
	CategoryLuck
	CategoryCareer
	CategoryHealth
	CategoryPatterns
	CategoryCompatStem
	CategoryCompatBranch
	CategoryCompatElements
	CategoryCompatFlow
	CategoryCompatSummary
)

// CategoryOrder is the fixed display sequence.
var CategoryOrder = []Category{
	CategoryIdentity,
	CategoryElements,
	CategoryStrength,
	CategoryLifeStage,
	CategoryLuck,
	CategoryCareer,
	CategoryHealth,
	CategoryPatterns,
	CategoryCompatStem,
	CategoryCompatBranch,
	CategoryCompatElements,
	CategoryCompatFlow,
	CategoryCompatSummary,
}

var categoryKeys = [...]string{
	"identity", "elements", "strength", "life_stage", "luck", "career", "health", "patterns",
	"compat_stem", "compat_branch", "compat_elements", "compat_flow", "compat_summary",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryKeys) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeys[c]
}

// AnalysisSection is one titled block of a report.
type AnalysisSection struct {
	Category Category
	Subject  string
	Title    string
	Content  string
	Summary  map[string]any
	Details  []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       any
	Unit        string
	Description string
}

// SubScore is one additive term of a compatibility score. Directional terms
// depend on argument order; symmetric ones do not.
type SubScore struct {
	Name        string
	Points      int
	Directional bool
}

type CompatibilityResult struct {
	Score     int
	Raw       int
	SubScores []SubScore
}

// SubjectStatus records how each subject of a request fared.
type SubjectStatus struct {
	Label  string
	Name   string
	Failed bool
	Stage  Stage
	Kind   string
	Error  string
}

// Report is built once per request and read-only afterwards.
type Report struct {
	Title          string
	SubjectSummary string
	Charts         []Chart
	Subjects       []SubjectStatus
	Sections       []AnalysisSection
	Compatibility  *CompatibilityResult
	Warnings       []string
}

// SortSections orders sections by category, keeping insertion order within a
// category.
func SortSections(sections []AnalysisSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Category < sections[j].Category
	})
}
