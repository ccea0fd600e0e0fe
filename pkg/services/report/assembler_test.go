package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
	"github.com/yjk624/shinryeong/pkg/services/compatibility"
	"github.com/yjk624/shinryeong/pkg/services/geocode"
	"github.com/yjk624/shinryeong/pkg/services/pillar"
	"github.com/yjk624/shinryeong/pkg/services/solartime"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

func newAssembler(t *testing.T, kb knowledge.Store) Assembler {
	t.Helper()
	corrector, err := solartime.NewCorrector(
		geocode.NewCache(geocode.NewGazetteer(geocode.DefaultPlaces...), 0, time.Second),
		solartime.DefaultSettings(),
	)
	require.NoError(t, err)
	return NewAssembler(
		calendar.NewConverter(),
		corrector,
		pillar.NewCalculator(pillar.DefaultSettings()),
		analysis.NewAnalyzer(kb, analysis.DefaultSettings()),
		compatibility.NewScorer(kb, compatibility.DefaultSettings(), analysis.DefaultSettings()),
	)
}

func embeddedKB(t *testing.T) knowledge.Store {
	kb := knowledge.NewStore(knowledge.NewEmbeddedSource())
	require.NoError(t, kb.Load(context.Background()))
	return kb
}

func seoulBirth() domain.BirthInput {
	return domain.BirthInput{
		Name:      "Minji",
		Date:      domain.LocalDate{Year: 1990, Month: 5, Day: 15},
		Time:      domain.ClockTime{Hour: 14, Minute: 30},
		Gender:    domain.GenderMale,
		PlaceName: "Seoul",
	}
}

func pillarKeys(c domain.Chart) []string {
	return []string{c.Year().Key(), c.Month().Key(), c.Day().Key(), c.Hour().Key()}
}

func TestBuildSingle(t *testing.T) {
	// Given
	a := newAssembler(t, embeddedKB(t))

	// When
	report, err := a.BuildSingle(context.Background(), seoulBirth())

	// Then
	require.NoError(t, err)
	require.Len(t, report.Charts, 1)
	chart := report.Charts[0]
	assert.Equal(t, []string{"gyeong-o", "sin-sa", "gyeong-jin", "gye-mi"}, pillarKeys(chart))
	assert.Equal(t, "Seoul", chart.Location.Name)
	assert.Len(t, chart.Luck.Cycles, 8)
	assert.Empty(t, report.Warnings)
	assert.Contains(t, report.SubjectSummary, "lunar 1990-04-21")

	require.NotEmpty(t, report.Sections)
	assert.Equal(t, domain.CategoryIdentity, report.Sections[0].Category)
	for i := 1; i < len(report.Sections); i++ {
		assert.LessOrEqual(t, report.Sections[i-1].Category, report.Sections[i].Category)
	}
}

func TestBuildSingle_LunarInputMatchesSolar(t *testing.T) {
	a := newAssembler(t, embeddedKB(t))

	lunar := seoulBirth()
	lunar.IsLunar = true
	lunar.Date = domain.LocalDate{Year: 1990, Month: 4, Day: 21}

	fromLunar, err := a.BuildSingle(context.Background(), lunar)
	require.NoError(t, err)
	fromSolar, err := a.BuildSingle(context.Background(), seoulBirth())
	require.NoError(t, err)

	assert.Equal(t, fromSolar.Charts[0].Pillars, fromLunar.Charts[0].Pillars)
	assert.Equal(t, domain.LocalDate{Year: 1990, Month: 5, Day: 15}, fromLunar.Charts[0].SolarDate)
}

func TestBuildSingle_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.BirthInput)
		stage  domain.Stage
		target error
	}{
		{
			name:   "missing gender",
			mutate: func(in *domain.BirthInput) { in.Gender = "" },
			stage:  domain.StageValidation,
			target: domain.ErrInputIncomplete,
		},
		{
			name:   "impossible solar date",
			mutate: func(in *domain.BirthInput) { in.Date = domain.LocalDate{Year: 1990, Month: 2, Day: 30} },
			stage:  domain.StageValidation,
			target: domain.ErrInvalidSolarDate,
		},
		{
			name: "leap month that did not occur",
			mutate: func(in *domain.BirthInput) {
				in.IsLunar = true
				in.IsLeapMonth = true
				in.Date = domain.LocalDate{Year: 1990, Month: 3, Day: 1}
			},
			stage:  domain.StageCalendar,
			target: domain.ErrInvalidCalendarDate,
		},
		{
			name:   "solar date past the last pillar year",
			mutate: func(in *domain.BirthInput) { in.Date = domain.LocalDate{Year: 2101, Month: 1, Day: 10} },
			stage:  domain.StageCalendar,
			target: domain.ErrInvalidSolarDate,
		},
		{
			name:   "unknown place",
			mutate: func(in *domain.BirthInput) { in.PlaceName = "Atlantis" },
			stage:  domain.StageSolarTime,
			target: domain.ErrLocationNotResolved,
		},
	}
	a := newAssembler(t, embeddedKB(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := seoulBirth()
			tt.mutate(&in)

			report, err := a.BuildSingle(context.Background(), in)

			assert.Nil(t, report)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			var se *domain.SubjectError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.stage, se.Stage)
			assert.Equal(t, "Minji", se.Subject)
		})
	}
}

func TestBuildSingle_MissingKnowledgeTableDegrades(t *testing.T) {
	kb := knowledge.NewMemoryStore(map[string]knowledge.Table{
		knowledge.TableIdentity: {"gyeong": {Title: "Gyeong Metal", Text: "ore"}},
	})
	a := newAssembler(t, kb)

	report, err := a.BuildSingle(context.Background(), seoulBirth())

	require.NoError(t, err)
	require.Len(t, report.Sections, 1)
	assert.Equal(t, domain.CategoryIdentity, report.Sections[0].Category)
	assert.Len(t, report.Warnings, 7)
}

func TestBuildCompatibility(t *testing.T) {
	a := newAssembler(t, embeddedKB(t))

	partner := seoulBirth()
	partner.Name = "Jiho"
	partner.Gender = domain.GenderFemale
	partner.Date = domain.LocalDate{Year: 1992, Month: 11, Day: 3}
	partner.PlaceName = "부산"

	report, err := a.BuildCompatibility(context.Background(), seoulBirth(), partner)

	require.NoError(t, err)
	require.NotNil(t, report.Compatibility)
	assert.Len(t, report.Charts, 2)
	require.Len(t, report.Subjects, 2)
	assert.False(t, report.Subjects[0].Failed)
	assert.False(t, report.Subjects[1].Failed)
	assert.Equal(t, "Busan", report.Charts[1].Location.Name)

	last := report.Sections[len(report.Sections)-1]
	assert.Equal(t, domain.CategoryCompatSummary, last.Category)
	assert.Len(t, report.Compatibility.SubScores, 4)
}

func TestBuildCompatibility_OneSubjectFails(t *testing.T) {
	a := newAssembler(t, embeddedKB(t))

	broken := seoulBirth()
	broken.Name = "Jiho"
	broken.PlaceName = "Atlantis"

	report, err := a.BuildCompatibility(context.Background(), seoulBirth(), broken)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLocationNotResolved)
	require.NotNil(t, report)
	assert.Nil(t, report.Compatibility)

	require.Len(t, report.Subjects, 2)
	assert.False(t, report.Subjects[0].Failed)
	assert.True(t, report.Subjects[1].Failed)
	assert.Equal(t, domain.StageSolarTime, report.Subjects[1].Stage)
	assert.Equal(t, "location_not_resolved", report.Subjects[1].Kind)

	require.Len(t, report.Charts, 1)
	assert.Equal(t, "Minji", report.Charts[0].Input.Name)
	for _, s := range report.Sections {
		assert.Equal(t, "Minji", s.Subject)
	}
}

func TestBuildCompatibility_SameNames(t *testing.T) {
	a := newAssembler(t, embeddedKB(t))

	report, err := a.BuildCompatibility(context.Background(), seoulBirth(), seoulBirth())
	require.NoError(t, err)
	assert.Equal(t, "Compatibility of Minji (A) and Minji (B)", report.Title)
}
