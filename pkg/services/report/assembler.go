// Package report runs the chart pipeline for one or two subjects and
// assembles the ordered report.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
	"github.com/yjk624/shinryeong/pkg/services/compatibility"
	"github.com/yjk624/shinryeong/pkg/services/pillar"
	"github.com/yjk624/shinryeong/pkg/services/solartime"
)

type Assembler interface {
	// BuildSingle fails with a *domain.SubjectError naming the stage that
	// failed; there is no partial report.
	BuildSingle(ctx context.Context, input domain.BirthInput) (*domain.Report, error)
	// BuildCompatibility computes both charts independently. When either
	// fails the report still lists both subjects' status and the error joins
	// the failures.
	BuildCompatibility(ctx context.Context, a, b domain.BirthInput) (*domain.Report, error)
}

type assembler struct {
	converter  calendar.Converter
	corrector  solartime.Corrector
	calculator pillar.Calculator
	analyzer   analysis.Analyzer
	scorer     compatibility.Scorer
}

func NewAssembler(
	converter calendar.Converter,
	corrector solartime.Corrector,
	calculator pillar.Calculator,
	analyzer analysis.Analyzer,
	scorer compatibility.Scorer,
) Assembler {
	return &assembler{
		converter:  converter,
		corrector:  corrector,
		calculator: calculator,
		analyzer:   analyzer,
		scorer:     scorer,
	}
}

func (r *assembler) BuildSingle(ctx context.Context, input domain.BirthInput) (*domain.Report, error) {
	label := subjectLabel(input, "A")
	res, err := r.chart(ctx, label, input)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		Title:          fmt.Sprintf("Four Pillars of %s", label),
		SubjectSummary: res.summary,
		Charts:         []domain.Chart{res.analysis.Chart},
		Subjects:       []domain.SubjectStatus{{Label: "A", Name: input.Name}},
		Sections:       res.analysis.Sections,
		Warnings:       res.analysis.Warnings,
	}
	domain.SortSections(report.Sections)
	return report, nil
}

func (r *assembler) BuildCompatibility(ctx context.Context, a, b domain.BirthInput) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	inputs := [2]domain.BirthInput{a, b}
	labels := [2]string{subjectLabel(a, "A"), subjectLabel(b, "B")}
	if labels[0] == labels[1] {
		labels[0], labels[1] = labels[0]+" (A)", labels[1]+" (B)"
	}

	var (
		results [2]subjectResult
		errs    [2]error
		g       errgroup.Group
	)
	for i := range inputs {
		i := i
		g.Go(func() error {
			// failures are kept per subject so one never cancels the other
			results[i], errs[i] = r.chart(ctx, labels[i], inputs[i])
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.Report{
		Title: fmt.Sprintf("Compatibility of %s and %s", labels[0], labels[1]),
	}
	var summaries []string
	for i, tag := range []string{"A", "B"} {
		status := domain.SubjectStatus{Label: tag, Name: inputs[i].Name}
		if err := errs[i]; err != nil {
			status.Failed = true
			status.Kind = domain.ErrorKind(err)
			status.Error = err.Error()
			var se *domain.SubjectError
			if errors.As(err, &se) {
				status.Stage = se.Stage
			}
			summaries = append(summaries, fmt.Sprintf("%s: failed at %s (%s)", labels[i], status.Stage, status.Kind))
		} else {
			report.Charts = append(report.Charts, results[i].analysis.Chart)
			report.Sections = append(report.Sections, results[i].analysis.Sections...)
			report.Warnings = append(report.Warnings, results[i].analysis.Warnings...)
			summaries = append(summaries, results[i].summary)
		}
		report.Subjects = append(report.Subjects, status)
	}
	report.SubjectSummary = strings.Join(summaries, "\n")

	if err := errors.Join(errs[0], errs[1]); err != nil {
		logger.Warn().Err(err).Msg("compatibility report incomplete")
		domain.SortSections(report.Sections)
		return report, err
	}

	scored := r.scorer.Score(ctx, results[0].analysis, results[1].analysis)
	report.Compatibility = &scored.CompatibilityResult
	report.Sections = append(report.Sections, scored.Sections...)
	report.Warnings = append(report.Warnings, scored.Warnings...)
	domain.SortSections(report.Sections)
	return report, nil
}

type subjectResult struct {
	analysis analysis.Analysis
	summary  string
}

// chart runs calendar conversion, solar time correction, pillar derivation
// and analysis for one subject.
func (r *assembler) chart(ctx context.Context, label string, input domain.BirthInput) (subjectResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("subject", label).Logger()
	ctx = logger.WithContext(ctx)

	fail := func(stage domain.Stage, err error) (subjectResult, error) {
		logger.Debug().Err(err).Str("stage", string(stage)).Msg("chart pipeline failed")
		return subjectResult{}, &domain.SubjectError{Subject: label, Stage: stage, Err: err}
	}

	input = input.Normalized()
	if err := input.Validate(); err != nil {
		return fail(domain.StageValidation, err)
	}

	solarDate, err := r.converter.SolarDateOf(input)
	if err != nil {
		return fail(domain.StageCalendar, err)
	}

	tst, loc, err := r.corrector.Correct(ctx, solarDate, input.Time, input.PlaceName)
	if err != nil {
		return fail(domain.StageSolarTime, err)
	}

	chart, err := r.calculator.Compute(tst)
	if err != nil {
		return fail(domain.StagePillars, err)
	}
	chart.Input = input
	chart.SolarDate = solarDate
	chart.Location = loc
	chart.Luck = r.calculator.Luck(chart, input.Gender)

	a := r.analyzer.Analyze(ctx, label, chart)

	logger.Info().
		Str("pillars", fmt.Sprintf("%s %s %s %s", chart.Year().Key(), chart.Month().Key(), chart.Day().Key(), chart.Hour().Key())).
		Int("sections", len(a.Sections)).
		Int("warnings", len(a.Warnings)).
		Msg("chart computed")

	return subjectResult{analysis: a, summary: r.summarize(label, chart)}, nil
}

func (r *assembler) summarize(label string, chart domain.Chart) string {
	in := chart.Input
	calendarNote := "solar"
	if in.IsLunar {
		calendarNote = "lunar " + in.Date.String()
		if in.IsLeapMonth {
			calendarNote += " (leap month)"
		}
	} else if lunar, err := r.converter.SolarToLunar(chart.SolarDate); err == nil {
		calendarNote = "lunar " + lunar.String()
	}
	return fmt.Sprintf("%s (%s), born %s %s [%s] in %s; true solar time %s (%+.0f min)",
		label,
		in.Gender,
		chart.SolarDate,
		in.Time,
		calendarNote,
		chart.Location.Name,
		chart.Time.Corrected.Format("2006-01-02 15:04"),
		chart.Time.Offset.Minutes(),
	)
}

func subjectLabel(input domain.BirthInput, fallback string) string {
	if name := strings.TrimSpace(input.Name); name != "" {
		return name
	}
	return fallback
}
