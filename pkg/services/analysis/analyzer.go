// Package analysis derives the secondary attributes of a chart and renders
// them into ordered report sections.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

// Analysis is everything derived from one chart. The computed attributes do
// not depend on the knowledge base; only the sections do.
type Analysis struct {
	Subject    string
	Chart      domain.Chart
	Elements   ElementBalance
	Strength   StrengthResult
	LifeStages [4]LifeStage
	TenGods    []TenGodPlacement
	Patterns   []PatternMatch
	Sections   []domain.AnalysisSection
	Warnings   []string
}

type Analyzer interface {
	Analyze(ctx context.Context, subject string, chart domain.Chart) Analysis
}

type analyzer struct {
	kb       knowledge.Store
	settings Settings
}

func NewAnalyzer(kb knowledge.Store, settings Settings) Analyzer {
	return &analyzer{kb: kb, settings: settings}
}

type sectionBuilder func(a *Analysis, kb knowledge.Store) (domain.AnalysisSection, error)

type category struct {
	category domain.Category
	table    string
	build    sectionBuilder
}

// categories run in display order.
var categories = []category{
	{domain.CategoryIdentity, knowledge.TableIdentity, identitySection},
	{domain.CategoryElements, knowledge.TableElements, elementsSection},
	{domain.CategoryStrength, knowledge.TableStrength, strengthSection},
	{domain.CategoryLifeStage, knowledge.TableLifeStage, lifeStageSection},
	{domain.CategoryLuck, knowledge.TableLuck, luckSection},
	{domain.CategoryCareer, knowledge.TableCareer, careerSection},
	{domain.CategoryHealth, knowledge.TableHealth, healthSection},
	{domain.CategoryPatterns, knowledge.TableShinsal, patternsSection},
}

func (an *analyzer) Analyze(ctx context.Context, subject string, chart domain.Chart) Analysis {
	logger := zerolog.Ctx(ctx)

	a := Analysis{
		Subject:  subject,
		Chart:    chart,
		Elements: Balance(chart, an.settings),
		Strength: DayMasterStrength(chart, an.settings),
		TenGods:  TenGods(chart),
	}
	for _, pos := range domain.PillarPositions {
		a.LifeStages[pos] = LifeStageOf(chart.DayMaster(), chart.Pillar(pos).Branch)
	}
	if shinsal, err := an.kb.Table(knowledge.TableShinsal); err == nil {
		a.Patterns = MatchPatterns(chart, shinsal)
	}

	for _, c := range categories {
		if _, err := an.kb.Table(c.table); err != nil {
			logger.Warn().Err(err).
				Str("subject", subject).
				Str("category", c.category.String()).
				Msg("omitting section")
			a.Warnings = append(a.Warnings, fmt.Sprintf("%s: %s section omitted: %v", subject, c.category, err))
			continue
		}

		section, err := c.build(&a, an.kb)
		if err != nil {
			if errors.Is(err, errSkip) {
				continue
			}
			logger.Warn().Err(err).Str("category", c.category.String()).Msg("failed to build section")
			a.Warnings = append(a.Warnings, fmt.Sprintf("%s: %s section omitted: %v", subject, c.category, err))
			continue
		}
		section.Category = c.category
		section.Subject = subject
		a.Sections = append(a.Sections, section)
	}

	domain.SortSections(a.Sections)
	return a
}

var errSkip = errors.New("nothing to report")

// lookupEntry returns the entry for key, or an empty one when it is absent.
func lookupEntry(kb knowledge.Store, table, key string) knowledge.Entry {
	e, err := kb.Lookup(table, key)
	if err != nil {
		return knowledge.Entry{Key: key}
	}
	return e
}

func elementName(e domain.Element) string {
	return strings.ToUpper(e.String()[:1]) + e.String()[1:]
}

func elementList(es []domain.Element) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.String()
	}
	return strings.Join(names, ", ")
}
