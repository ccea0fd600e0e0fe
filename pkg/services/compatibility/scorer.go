// Package compatibility scores two independently analysed charts against each
// other.
//
// The stem, branch and element sub-scores are symmetric: swapping the charts
// leaves them unchanged. The flow sub-score is directional and is computed
// from the first chart's point of view.
package compatibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

const (
	BaseScore = 50
	MinScore  = 0
	MaxScore  = 100
)

const (
	SubScoreStem     = "stem"
	SubScoreBranch   = "branch"
	SubScoreElements = "elements"
	SubScoreFlow     = "flow"
)

// Settings contains the point values of each relation
type Settings struct {
	// StemPoints is added for combining day stems and subtracted for clashing ones (default: 15)
	StemPoints int
	// BranchPoints is added for harmonising day branches and subtracted for clashing ones (default: 15)
	BranchPoints int
	// ComplementPoints is added per element one chart lacks and the other holds at least twice (default: 5)
	ComplementPoints int
	// ExcessPenalty is subtracted per element both charts hold in excess (default: 5)
	ExcessPenalty int
	// FlowPoints maps each flow to its points (default: generated 8, generates 4, same 5, controlled -6, controls -2)
	FlowPoints map[Flow]int
	// HighScore and LowScore split the summary into strong, workable and challenging (default: 70, 45)
	HighScore int
	LowScore  int
}

func DefaultSettings() Settings {
	return Settings{
		StemPoints:       15,
		BranchPoints:     15,
		ComplementPoints: 5,
		ExcessPenalty:    5,
		FlowPoints: map[Flow]int{
			FlowGenerated:  8,
			FlowGenerates:  4,
			FlowSame:       5,
			FlowControlled: -6,
			FlowControls:   -2,
		},
		HighScore: 70,
		LowScore:  45,
	}
}

// Result is the score plus its report sections.
type Result struct {
	domain.CompatibilityResult
	Sections []domain.AnalysisSection
	Warnings []string
}

type Scorer interface {
	Score(ctx context.Context, a, b analysis.Analysis) Result
}

type scorer struct {
	kb       knowledge.Store
	settings Settings
	analysis analysis.Settings
}

func NewScorer(kb knowledge.Store, settings Settings, analysisSettings analysis.Settings) Scorer {
	return &scorer{kb: kb, settings: settings, analysis: analysisSettings}
}

func (s *scorer) Score(ctx context.Context, a, b analysis.Analysis) Result {
	logger := zerolog.Ctx(ctx)

	stemRel := StemRelation(a.Chart.DayMaster(), b.Chart.DayMaster())
	branchRel := BranchRelation(a.Chart.Day().Branch, b.Chart.Day().Branch)
	elemPoints, complements, excesses := s.elementPoints(a.Elements, b.Elements)
	flow := FlowBetween(a.Chart.DayMaster().Element(), b.Chart.DayMaster().Element())

	subScores := []domain.SubScore{
		{Name: SubScoreStem, Points: relationPoints(stemRel, s.settings.StemPoints)},
		{Name: SubScoreBranch, Points: relationPoints(branchRel, s.settings.BranchPoints)},
		{Name: SubScoreElements, Points: elemPoints},
		{Name: SubScoreFlow, Points: s.settings.FlowPoints[flow], Directional: true},
	}

	raw := BaseScore
	for _, sub := range subScores {
		raw += sub.Points
	}
	score := min(max(raw, MinScore), MaxScore)

	result := Result{CompatibilityResult: domain.CompatibilityResult{
		Score:     score,
		Raw:       raw,
		SubScores: subScores,
	}}

	logger.Debug().
		Int("score", score).
		Int("raw", raw).
		Str("stem", stemRel.String()).
		Str("branch", branchRel.String()).
		Str("flow", flow.Key()).
		Msg("scored compatibility")

	if _, err := s.kb.Table(knowledge.TableCompatibility); err != nil {
		logger.Warn().Err(err).Msg("omitting compatibility sections")
		result.Warnings = append(result.Warnings, fmt.Sprintf("compatibility sections omitted: %v", err))
		return result
	}

	subject := a.Subject + " & " + b.Subject
	section := func(c domain.Category, key, extra string, points int) domain.AnalysisSection {
		entry, _ := s.kb.Lookup(knowledge.TableCompatibility, key)
		content := entry.Text
		if extra != "" {
			content = strings.TrimSpace(extra + "\n" + content)
		}
		return domain.AnalysisSection{
			Category: c,
			Subject:  subject,
			Title:    entry.Title,
			Content:  content,
			Summary:  map[string]any{"points": points, "key": key},
		}
	}

	result.Sections = []domain.AnalysisSection{
		section(domain.CategoryCompatStem, "stem_"+stemRel.String(),
			fmt.Sprintf("%s %s and %s %s", a.Chart.DayMaster().Hanja(), a.Chart.DayMaster().Key(), b.Chart.DayMaster().Hanja(), b.Chart.DayMaster().Key()),
			subScores[0].Points),
		section(domain.CategoryCompatBranch, "branch_"+branchRel.String(),
			fmt.Sprintf("%s %s and %s %s", a.Chart.Day().Branch.Hanja(), a.Chart.Day().Branch.Key(), b.Chart.Day().Branch.Hanja(), b.Chart.Day().Branch.Key()),
			subScores[1].Points),
		section(domain.CategoryCompatElements, elementsKey(complements, excesses),
			elementsDetail(complements, excesses),
			subScores[2].Points),
		section(domain.CategoryCompatFlow, "flow_"+flow.Key(),
			fmt.Sprintf("%s's %s toward %s's %s", a.Subject, a.Chart.DayMaster().Element(), b.Subject, b.Chart.DayMaster().Element()),
			subScores[3].Points),
		section(domain.CategoryCompatSummary, s.summaryKey(score),
			fmt.Sprintf("Score %d/100", score),
			score),
	}
	return result
}

func relationPoints(r Relation, points int) int {
	switch r {
	case Harmony:
		return points
	case Clash:
		return -points
	default:
		return 0
	}
}

// elementPoints rewards each element one chart lacks and the other holds at
// least twice, and penalises each element both hold in excess.
func (s *scorer) elementPoints(a, b analysis.ElementBalance) (int, []domain.Element, []domain.Element) {
	var complements, excesses []domain.Element
	points := 0
	for _, e := range domain.Elements {
		na, nb := a.Count(e), b.Count(e)
		missing := s.analysis.MissingThreshold
		if (na <= missing && nb >= 2) || (nb <= missing && na >= 2) {
			complements = append(complements, e)
			points += s.settings.ComplementPoints
		}
		if na >= s.analysis.ExcessThreshold && nb >= s.analysis.ExcessThreshold {
			excesses = append(excesses, e)
			points -= s.settings.ExcessPenalty
		}
	}
	return points, complements, excesses
}

func elementsKey(complements, excesses []domain.Element) string {
	switch {
	case len(complements) > len(excesses):
		return "elements_complement"
	case len(excesses) > 0:
		return "elements_excess"
	default:
		return "elements_neutral"
	}
}

func elementsDetail(complements, excesses []domain.Element) string {
	var parts []string
	if len(complements) > 0 {
		parts = append(parts, "Complementary: "+joinElements(complements))
	}
	if len(excesses) > 0 {
		parts = append(parts, "Shared excess: "+joinElements(excesses))
	}
	return strings.Join(parts, "\n")
}

func joinElements(es []domain.Element) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.String()
	}
	return strings.Join(names, ", ")
}

func (s *scorer) summaryKey(score int) string {
	switch {
	case score >= s.settings.HighScore:
		return "summary_high"
	case score >= s.settings.LowScore:
		return "summary_mid"
	default:
		return "summary_low"
	}
}
