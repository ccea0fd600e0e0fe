package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yjk624/shinryeong/pkg/models/api"
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

func TestMapBirthRequestApiToDomain(t *testing.T) {
	tests := []struct {
		name    string
		req     api.BirthRequest
		want    domain.BirthInput
		wantErr bool
	}{
		{
			name: "solar request",
			req:  api.BirthRequest{Name: "Minji", Date: "1990-05-15", Time: "14:30", Gender: "F", Place: "Seoul"},
			want: domain.BirthInput{
				Name:      "Minji",
				Date:      domain.LocalDate{Year: 1990, Month: 5, Day: 15},
				Time:      domain.ClockTime{Hour: 14, Minute: 30},
				Gender:    domain.GenderFemale,
				PlaceName: "Seoul",
			},
		},
		{
			name: "lunar leap month",
			req:  api.BirthRequest{Date: "2020-04-10", Time: "06:05", Calendar: "Lunar", LeapMonth: true, Gender: "남", Place: "부산"},
			want: domain.BirthInput{
				Date:        domain.LocalDate{Year: 2020, Month: 4, Day: 10},
				Time:        domain.ClockTime{Hour: 6, Minute: 5},
				IsLunar:     true,
				IsLeapMonth: true,
				Gender:      domain.GenderMale,
				PlaceName:   "부산",
			},
		},
		{
			name: "absent gender is left for validation",
			req:  api.BirthRequest{Date: "1990-05-15", Time: "14:30", Place: "Seoul"},
			want: domain.BirthInput{
				Date:      domain.LocalDate{Year: 1990, Month: 5, Day: 15},
				Time:      domain.ClockTime{Hour: 14, Minute: 30},
				PlaceName: "Seoul",
			},
		},
		{name: "missing time", req: api.BirthRequest{Date: "1990-05-15", Gender: "m", Place: "Seoul"}, wantErr: true},
		{name: "malformed date", req: api.BirthRequest{Date: "15/05/1990", Time: "14:30"}, wantErr: true},
		{name: "time out of range", req: api.BirthRequest{Date: "1990-05-15", Time: "24:10"}, wantErr: true},
		{name: "unknown calendar", req: api.BirthRequest{Date: "1990-05-15", Time: "14:30", Calendar: "julian"}, wantErr: true},
		{name: "unknown gender", req: api.BirthRequest{Date: "1990-05-15", Time: "14:30", Gender: "x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapBirthRequestApiToDomain(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInputIncomplete)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapReportDomainToApi(t *testing.T) {
	corrected := time.Date(1990, 5, 15, 13, 57, 55, 0, time.UTC)
	report := domain.Report{
		Title:          "Compatibility of A and B",
		SubjectSummary: "summary",
		Charts: []domain.Chart{{
			Input:     domain.BirthInput{Name: "A", Gender: domain.GenderMale, Time: domain.ClockTime{Hour: 14, Minute: 30}},
			SolarDate: domain.LocalDate{Year: 1990, Month: 5, Day: 15},
			Time:      domain.TrueSolarDateTime{Corrected: corrected, Offset: -32*time.Minute - 5*time.Second},
			Location:  domain.Location{Name: "Seoul", Longitude: 126.978, Source: "gazetteer"},
			Pillars: [4]domain.Pillar{
				domain.PillarFromCycle(6), domain.PillarFromCycle(17),
				domain.PillarFromCycle(16), domain.PillarFromCycle(19),
			},
			Luck: domain.LuckSchedule{Forward: true, StartAge: 7, Cycles: []domain.LuckCycle{{StartAge: 7, Pillar: domain.PillarFromCycle(18)}}},
		}},
		Subjects: []domain.SubjectStatus{
			{Label: "A", Name: "A"},
			{Label: "B", Name: "B", Failed: true, Stage: domain.StageSolarTime, Kind: "location_not_resolved", Error: "boom"},
		},
		Sections: []domain.AnalysisSection{{
			Category: domain.CategoryElements,
			Subject:  "A",
			Title:    "Elements",
			Summary:  map[string]any{"missing": "wood"},
			Details:  []domain.ReportDetail{{Name: "metal", Value: 3}},
		}},
		Compatibility: &domain.CompatibilityResult{Score: 61, Raw: 61, SubScores: []domain.SubScore{{Name: "flow", Points: 4, Directional: true}}},
	}

	got := MapReportDomainToApi(report)

	require.Len(t, got.Charts, 1)
	chart := got.Charts[0]
	assert.Equal(t, "1990-05-15", chart.SolarDate)
	assert.Equal(t, "14:30", chart.BirthTime)
	assert.Equal(t, "1990-05-15 13:57:55", chart.TrueSolarTime)
	assert.Equal(t, []string{"year", "month", "day", "hour"}, []string{
		chart.Pillars[0].Position, chart.Pillars[1].Position, chart.Pillars[2].Position, chart.Pillars[3].Position,
	})
	assert.Equal(t, "gyeong-o", chart.Pillars[0].Key)
	assert.Equal(t, "metal", chart.Pillars[0].Element)
	assert.Equal(t, "forward", chart.Luck.Direction)
	assert.Equal(t, "im-o", chart.Luck.Cycles[0].Pillar.Key)

	assert.Equal(t, "solar_time", got.Subjects[1].Stage)
	assert.True(t, got.Subjects[1].Failed)
	assert.Equal(t, "elements", got.Sections[0].Category)
	assert.Equal(t, "wood", got.Sections[0].Summary["missing"])
	require.NotNil(t, got.Compatibility)
	assert.Equal(t, 61, got.Compatibility.Score)
	assert.True(t, got.Compatibility.SubScores[0].Directional)
}
