package analysis

import (
	"slices"
	"strings"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

// PatternMatch is a symbolic pattern found in a chart.
type PatternMatch struct {
	Key       string
	Title     string
	Text      string
	Positions []domain.PillarPosition
}

// MatchPatterns evaluates every pattern of the table against the chart.
// Patterns are independent; results follow the table's key order.
func MatchPatterns(chart domain.Chart, table knowledge.Table) []PatternMatch {
	var matches []PatternMatch
	for _, key := range table.Keys() {
		entry := table[key]
		if entry.Rule == nil {
			continue
		}
		positions := evaluate(chart, entry.Rule)
		if len(positions) == 0 {
			continue
		}
		matches = append(matches, PatternMatch{
			Key:       key,
			Title:     entry.Title,
			Text:      entry.Text,
			Positions: positions,
		})
	}
	return matches
}

func evaluate(chart domain.Chart, rule *knowledge.Rule) []domain.PillarPosition {
	var found []domain.PillarPosition
	add := func(p domain.PillarPosition) {
		if !slices.Contains(found, p) {
			found = append(found, p)
		}
	}

	switch rule.Kind {
	case knowledge.RuleBranchGroup:
		// the year and day branches each anchor the trine they belong to
		for _, anchor := range []domain.PillarPosition{domain.YearPillar, domain.DayPillar} {
			targets := groupTargets(rule.Targets, chart.Pillar(anchor).Branch)
			for _, pos := range domain.PillarPositions {
				if pos != anchor && slices.Contains(targets, chart.Pillar(pos).Branch.Key()) {
					add(pos)
				}
			}
		}
	case knowledge.RuleDayStemBranch:
		targets := rule.Targets[chart.DayMaster().Key()]
		for _, pos := range domain.PillarPositions {
			if slices.Contains(targets, chart.Pillar(pos).Branch.Key()) {
				add(pos)
			}
		}
	case knowledge.RuleDayPillar:
		if slices.Contains(rule.Pillars, chart.Day().Key()) {
			add(domain.DayPillar)
		}
	}

	slices.Sort(found)
	return found
}

func groupTargets(groups map[string][]string, b domain.Branch) []string {
	for group, targets := range groups {
		if slices.Contains(strings.Split(group, "-"), b.Key()) {
			return targets
		}
	}
	return nil
}
