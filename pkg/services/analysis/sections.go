package analysis

import (
	"fmt"
	"strings"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

func identitySection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	chart := a.Chart
	dm := chart.DayMaster()
	entry := lookupEntry(kb, knowledge.TableIdentity, dm.Key())

	var b strings.Builder
	fmt.Fprintf(&b, "Day master: %s %s (%s %s)\n", dm.Hanja(), dm.Key(), dm.Polarity(), dm.Element())
	for _, pos := range domain.PillarPositions {
		p := chart.Pillar(pos)
		fmt.Fprintf(&b, "%-5s pillar: %s %s (%s)\n", pos, p.Hanja(), p.Key(), p.Hangul())
	}
	fmt.Fprintf(&b, "Zodiac animal: %s\n", chart.Year().Branch.Animal())
	if entry.Text != "" {
		b.WriteString("\n" + entry.Text)
	}

	details := make([]domain.ReportDetail, 0, len(a.TenGods))
	for _, tg := range a.TenGods {
		glyph := tg.Character.Branch.Hanja()
		if tg.Character.IsStem {
			glyph = tg.Character.Stem.Hanja()
		}
		details = append(details, domain.ReportDetail{
			Name:        fmt.Sprintf("%s %s", tg.Character.Position, kind(tg.Character)),
			Value:       glyph,
			Description: tg.God.String(),
		})
	}

	title := "Identity"
	if entry.Title != "" {
		title = entry.Title
	}
	return domain.AnalysisSection{
		Title:   title,
		Content: strings.TrimRight(b.String(), "\n"),
		Summary: map[string]any{
			"day_master": dm.Key(),
			"element":    dm.Element().String(),
			"polarity":   dm.Polarity().String(),
			"animal":     chart.Year().Branch.Animal(),
		},
		Details: details,
	}, nil
}

func kind(ch domain.Character) string {
	if ch.IsStem {
		return "stem"
	}
	return "branch"
}

func elementsSection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	bal := a.Elements

	var b strings.Builder
	summary := map[string]any{}
	details := make([]domain.ReportDetail, 0, 5)
	for _, e := range domain.Elements {
		n := bal.Count(e)
		fmt.Fprintf(&b, "%-5s %s %d\n", e, strings.Repeat("■", n), n)
		summary[e.String()] = n
		details = append(details, domain.ReportDetail{
			Name:        e.String(),
			Value:       n,
			Unit:        "characters",
			Description: fmt.Sprintf("%+.1f against the balanced %.1f", bal.Deviation(e), BalancedCount),
		})
	}

	var notes []string
	if bal.IsBalanced() {
		if e := lookupEntry(kb, knowledge.TableElements, "balanced"); e.Text != "" {
			notes = append(notes, e.Text)
		}
	}
	for _, e := range bal.Excess {
		if entry := lookupEntry(kb, knowledge.TableElements, e.String()+"_excess"); entry.Text != "" {
			notes = append(notes, entry.Title+": "+entry.Text)
		}
	}
	for _, e := range bal.Missing {
		if entry := lookupEntry(kb, knowledge.TableElements, e.String()+"_missing"); entry.Text != "" {
			notes = append(notes, entry.Title+": "+entry.Text)
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n" + strings.Join(notes, "\n"))
	}

	summary["missing"] = elementList(bal.Missing)
	summary["excess"] = elementList(bal.Excess)
	return domain.AnalysisSection{
		Title:   "Elemental Balance",
		Content: strings.TrimRight(b.String(), "\n"),
		Summary: summary,
		Details: details,
	}, nil
}

func strengthSection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	r := a.Strength
	dm := a.Chart.DayMaster().Element()
	entry := lookupEntry(kb, knowledge.TableStrength, r.Key())

	var b strings.Builder
	fmt.Fprintf(&b, "Supporting characters: %d, opposing characters: %d\n", r.Support, r.Oppose)
	fmt.Fprintf(&b, "Favourable elements: %s\n", elementList(r.Favourable(dm)))
	if entry.Text != "" {
		b.WriteString("\n" + entry.Text)
	}

	title := "Day Master Strength"
	if entry.Title != "" {
		title = entry.Title
	}
	return domain.AnalysisSection{
		Title:   title,
		Content: strings.TrimRight(b.String(), "\n"),
		Summary: map[string]any{
			"strong":  r.Strong,
			"support": r.Support,
			"oppose":  r.Oppose,
		},
	}, nil
}

func lifeStageSection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	var b strings.Builder
	details := make([]domain.ReportDetail, 0, 4)
	for _, pos := range domain.PillarPositions {
		stage := a.LifeStages[pos]
		entry := lookupEntry(kb, knowledge.TableLifeStage, stage.Key())
		name := entry.Title
		if name == "" {
			name = stage.Key()
		}
		fmt.Fprintf(&b, "%s: %s", Period(pos), name)
		if entry.Text != "" {
			fmt.Fprintf(&b, " - %s", entry.Text)
		}
		b.WriteString("\n")
		details = append(details, domain.ReportDetail{
			Name:        Period(pos),
			Value:       stage.Key(),
			Description: entry.Text,
		})
	}
	return domain.AnalysisSection{
		Title:   "Life Stages",
		Content: strings.TrimRight(b.String(), "\n"),
		Details: details,
	}, nil
}

func luckSection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	luck := a.Chart.Luck
	if len(luck.Cycles) == 0 {
		return domain.AnalysisSection{}, errSkip
	}
	dm := a.Chart.DayMaster()

	direction := "backward"
	if luck.Forward {
		direction = "forward"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ten-year cycles run %s, starting at age %d\n", direction, luck.StartAge)
	details := make([]domain.ReportDetail, 0, len(luck.Cycles))
	for _, c := range luck.Cycles {
		god := domain.TenGodOf(dm, c.Pillar.Stem.Element(), c.Pillar.Stem.Polarity())
		entry := lookupEntry(kb, knowledge.TableLuck, god.Key())
		fmt.Fprintf(&b, "age %3d  %s %-12s %s\n", c.StartAge, c.Pillar.Hanja(), c.Pillar.Key(), entry.Text)
		details = append(details, domain.ReportDetail{
			Name:        fmt.Sprintf("age %d", c.StartAge),
			Value:       c.Pillar.Key(),
			Unit:        god.Key(),
			Description: entry.Title,
		})
	}
	return domain.AnalysisSection{
		Title:   "Luck Cycles",
		Content: strings.TrimRight(b.String(), "\n"),
		Summary: map[string]any{
			"forward":   luck.Forward,
			"start_age": luck.StartAge,
		},
		Details: details,
	}, nil
}

func careerSection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	dm := a.Chart.DayMaster().Element()
	entry := lookupEntry(kb, knowledge.TableCareer, dm.String())

	var b strings.Builder
	if entry.Text != "" {
		fmt.Fprintf(&b, "%s: %s\n", elementName(dm), entry.Text)
	}

	counts := TenGodCounts(a.TenGods)
	var dominant domain.TenGod
	best := 0
	for g := domain.Companion; g <= domain.DirectSeal; g++ {
		if counts[g] > best {
			dominant, best = g, counts[g]
		}
	}
	if best > 0 {
		fmt.Fprintf(&b, "Most prominent relation: %s (%d of 7 characters)\n", dominant, best)
	}
	for _, e := range a.Strength.Favourable(dm) {
		if e == dm {
			continue
		}
		if fav := lookupEntry(kb, knowledge.TableCareer, e.String()); fav.Text != "" {
			fmt.Fprintf(&b, "Also favourable (%s): %s\n", e, fav.Text)
		}
	}

	title := "Career"
	if entry.Title != "" {
		title = "Career: " + entry.Title
	}
	return domain.AnalysisSection{
		Title:   title,
		Content: strings.TrimRight(b.String(), "\n"),
		Summary: map[string]any{
			"element":          dm.String(),
			"dominant_ten_god": dominant.Key(),
		},
	}, nil
}

func healthSection(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error) {
	bal := a.Elements

	var b strings.Builder
	write := func(label string, es []domain.Element) {
		for _, e := range es {
			entry := lookupEntry(kb, knowledge.TableHealth, e.String())
			if entry.Text == "" {
				continue
			}
			fmt.Fprintf(&b, "%s %s (%s): %s\n", label, e, entry.Title, entry.Text)
		}
	}
	write("Excess", bal.Excess)
	write("Missing", bal.Missing)
	if b.Len() == 0 {
		dm := a.Chart.DayMaster().Element()
		entry := lookupEntry(kb, knowledge.TableHealth, dm.String())
		b.WriteString("No element is strongly over- or under-represented.\n")
		if entry.Text != "" {
			fmt.Fprintf(&b, "Day master %s (%s): %s\n", dm, entry.Title, entry.Text)
		}
	}

	return domain.AnalysisSection{
		Title:   "Health",
		Content: strings.TrimRight(b.String(), "\n"),
	}, nil
}

func patternsSection(a *Analysis, _ knowledge.Store) (domain.AnalysisSection, error) {
	var b strings.Builder
	details := make([]domain.ReportDetail, 0, len(a.Patterns))
	for _, m := range a.Patterns {
		positions := make([]string, len(m.Positions))
		for i, p := range m.Positions {
			positions[i] = p.String()
		}
		where := strings.Join(positions, ", ")
		fmt.Fprintf(&b, "%s [%s]: %s\n", m.Title, where, m.Text)
		details = append(details, domain.ReportDetail{
			Name:        m.Key,
			Value:       where,
			Description: m.Title,
		})
	}
	if len(a.Patterns) == 0 {
		b.WriteString("No symbolic patterns found.")
	}
	return domain.AnalysisSection{
		Title:   "Symbolic Patterns",
		Content: strings.TrimRight(b.String(), "\n"),
		Summary: map[string]any{"matched": len(a.Patterns)},
		Details: details,
	}, nil
}
