package compatibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

func analyzed(subject string, pillars ...int) analysis.Analysis {
	chart := domain.Chart{}
	for i, p := range pillars {
		chart.Pillars[i] = domain.PillarFromCycle(p)
	}
	return analysis.NewAnalyzer(knowledge.NewMemoryStore(nil), analysis.DefaultSettings()).
		Analyze(context.Background(), subject, chart)
}

func embeddedKB(t *testing.T) knowledge.Store {
	kb := knowledge.NewStore(knowledge.NewEmbeddedSource())
	require.NoError(t, kb.Load(context.Background()))
	return kb
}

func subScore(r Result, name string) domain.SubScore {
	for _, s := range r.SubScores {
		if s.Name == name {
			return s
		}
	}
	return domain.SubScore{}
}

func TestStemRelation(t *testing.T) {
	assert.Equal(t, Harmony, StemRelation(domain.StemGap, domain.StemGi))
	assert.Equal(t, Harmony, StemRelation(domain.StemGye, domain.StemMu))
	assert.Equal(t, Clash, StemRelation(domain.StemGap, domain.StemGyeong))
	assert.Equal(t, Clash, StemRelation(domain.StemGye, domain.StemJeong))
	assert.Equal(t, Neutral, StemRelation(domain.StemGap, domain.StemEul))
	assert.Equal(t, Neutral, StemRelation(domain.StemMu, domain.StemMu))
}

func TestBranchRelation(t *testing.T) {
	tests := []struct {
		a, b domain.Branch
		want Relation
	}{
		{domain.BranchJa, domain.BranchChuk, Harmony},
		{domain.BranchIn, domain.BranchHae, Harmony},
		{domain.BranchO, domain.BranchMi, Harmony},
		{domain.BranchIn, domain.BranchO, Harmony}, // trine
		{domain.BranchJa, domain.BranchO, Clash},
		{domain.BranchSa, domain.BranchHae, Clash},
		{domain.BranchJa, domain.BranchJa, Neutral},
		{domain.BranchJa, domain.BranchMyo, Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.a.Key()+"-"+tt.b.Key(), func(t *testing.T) {
			assert.Equal(t, tt.want, BranchRelation(tt.a, tt.b))
			assert.Equal(t, tt.want, BranchRelation(tt.b, tt.a))
		})
	}
}

func TestFlowBetween(t *testing.T) {
	assert.Equal(t, FlowGenerated, FlowBetween(domain.Wood, domain.Water))
	assert.Equal(t, FlowGenerates, FlowBetween(domain.Water, domain.Wood))
	assert.Equal(t, FlowControlled, FlowBetween(domain.Wood, domain.Metal))
	assert.Equal(t, FlowControls, FlowBetween(domain.Metal, domain.Wood))
	assert.Equal(t, FlowSame, FlowBetween(domain.Fire, domain.Fire))
}

func TestScore_SymmetricSubScores(t *testing.T) {
	s := NewScorer(knowledge.NewMemoryStore(nil), DefaultSettings(), analysis.DefaultSettings())
	ctx := context.Background()

	for i := 0; i < 60; i += 7 {
		for j := 0; j < 60; j += 11 {
			a := analyzed("A", i, i+3, i+17, j)
			b := analyzed("B", j, j+29, j+41, i)

			ab := s.Score(ctx, a, b)
			ba := s.Score(ctx, b, a)

			for _, name := range []string{SubScoreStem, SubScoreBranch, SubScoreElements} {
				assert.Equal(t, subScore(ab, name).Points, subScore(ba, name).Points, "%s %d/%d", name, i, j)
				assert.False(t, subScore(ab, name).Directional)
			}
			assert.True(t, subScore(ab, SubScoreFlow).Directional)

			flowAB, flowBA := subScore(ab, SubScoreFlow).Points, subScore(ba, SubScoreFlow).Points
			assert.Equal(t, ab.Raw-flowAB, ba.Raw-flowBA)
			assert.GreaterOrEqual(t, ab.Score, MinScore)
			assert.LessOrEqual(t, ab.Score, MaxScore)
		}
	}
}

func TestScore_HarmonyAndClash(t *testing.T) {
	s := NewScorer(knowledge.NewMemoryStore(nil), DefaultSettings(), analysis.DefaultSettings())
	ctx := context.Background()

	// day pillars gap-ja (0) and gi-chuk (25): stems combine, branches harmonise
	r := s.Score(ctx, analyzed("A", 0, 0, 0, 0), analyzed("B", 25, 25, 25, 25))
	assert.Equal(t, 15, subScore(r, SubScoreStem).Points)
	assert.Equal(t, 15, subScore(r, SubScoreBranch).Points)

	// gap-ja (0) and gyeong-o (6): both clash
	r = s.Score(ctx, analyzed("A", 0, 0, 0, 0), analyzed("B", 6, 6, 6, 6))
	assert.Equal(t, -15, subScore(r, SubScoreStem).Points)
	assert.Equal(t, -15, subScore(r, SubScoreBranch).Points)
	// wood day master restrained by metal
	assert.Equal(t, -6, subScore(r, SubScoreFlow).Points)
}

func TestScore_ElementPoints(t *testing.T) {
	s := NewScorer(knowledge.NewMemoryStore(nil), DefaultSettings(), analysis.DefaultSettings())

	// gap-in (50) x4 is all wood; byeong-o (42) x4 is all fire. Each lacks
	// the other's element and holds it eight times.
	r := s.Score(context.Background(), analyzed("A", 50, 50, 50, 50), analyzed("B", 42, 42, 42, 42))
	assert.Equal(t, 10, subScore(r, SubScoreElements).Points)

	// both all wood: shared excess
	r = s.Score(context.Background(), analyzed("A", 50, 50, 50, 50), analyzed("B", 51, 51, 51, 51))
	assert.Equal(t, -5, subScore(r, SubScoreElements).Points)
}

func TestScore_Clamped(t *testing.T) {
	settings := DefaultSettings()
	settings.StemPoints = 100
	s := NewScorer(knowledge.NewMemoryStore(nil), settings, analysis.DefaultSettings())

	r := s.Score(context.Background(), analyzed("A", 0, 0, 0, 0), analyzed("B", 25, 25, 25, 25))
	assert.Equal(t, MaxScore, r.Score)
	assert.Greater(t, r.Raw, MaxScore)
}

func TestScore_Sections(t *testing.T) {
	s := NewScorer(embeddedKB(t), DefaultSettings(), analysis.DefaultSettings())

	r := s.Score(context.Background(), analyzed("A", 0, 0, 0, 0), analyzed("B", 25, 25, 25, 25))

	require.Len(t, r.Sections, 5)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, domain.CategoryCompatStem, r.Sections[0].Category)
	assert.Equal(t, "stem_harmony", r.Sections[0].Summary["key"])
	assert.Equal(t, "A & B", r.Sections[0].Subject)
	assert.Equal(t, domain.CategoryCompatSummary, r.Sections[4].Category)
	assert.NotEmpty(t, r.Sections[4].Title)
}

func TestScore_MissingTableStillScores(t *testing.T) {
	s := NewScorer(knowledge.NewMemoryStore(nil), DefaultSettings(), analysis.DefaultSettings())

	r := s.Score(context.Background(), analyzed("A", 0, 0, 0, 0), analyzed("B", 25, 25, 25, 25))
	assert.Empty(t, r.Sections)
	require.Len(t, r.Warnings, 1)
	assert.Greater(t, r.Score, BaseScore)
}
