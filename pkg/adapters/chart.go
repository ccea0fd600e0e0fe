package adapters

import (
	"fmt"
	"strings"

	"github.com/yjk624/shinryeong/pkg/models/api"
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// MapBirthRequestApiToDomain parses the request fields. Absent fields are
// left zero for BirthInput.Validate to report; malformed ones fail here with
// domain.ErrInputIncomplete.
func MapBirthRequestApiToDomain(r api.BirthRequest) (domain.BirthInput, error) {
	in := domain.BirthInput{
		Name:        r.Name,
		PlaceName:   r.Place,
		IsLeapMonth: r.LeapMonth,
	}

	switch strings.ToLower(strings.TrimSpace(r.Calendar)) {
	case "", "solar":
	case "lunar":
		in.IsLunar = true
	default:
		return domain.BirthInput{}, fmt.Errorf("%w: unknown calendar %q", domain.ErrInputIncomplete, r.Calendar)
	}

	if strings.TrimSpace(r.Date) != "" {
		d, err := domain.ParseLocalDate(r.Date)
		if err != nil {
			return domain.BirthInput{}, err
		}
		in.Date = d
	}

	if strings.TrimSpace(r.Time) == "" {
		return domain.BirthInput{}, fmt.Errorf("%w: missing birth time", domain.ErrInputIncomplete)
	}
	t, err := domain.ParseClockTime(r.Time)
	if err != nil {
		return domain.BirthInput{}, err
	}
	in.Time = t

	if strings.TrimSpace(r.Gender) != "" {
		g, err := domain.ParseGender(r.Gender)
		if err != nil {
			return domain.BirthInput{}, err
		}
		in.Gender = g
	}
	return in, nil
}

func MapPillarDomainToApi(p domain.Pillar) api.Pillar {
	return api.Pillar{
		Key:     p.Key(),
		Hanja:   p.Hanja(),
		Hangul:  p.Hangul(),
		Element: p.Stem.Element().String(),
	}
}

func MapLuckDomainToApi(l domain.LuckSchedule) api.Luck {
	res := api.Luck{
		Direction: "backward",
		StartAge:  l.StartAge,
		Cycles:    make([]api.LuckCycle, 0, len(l.Cycles)),
	}
	if l.Forward {
		res.Direction = "forward"
	}
	for _, c := range l.Cycles {
		res.Cycles = append(res.Cycles, api.LuckCycle{StartAge: c.StartAge, Pillar: MapPillarDomainToApi(c.Pillar)})
	}
	return res
}

func MapChartDomainToApi(c domain.Chart) api.Chart {
	res := api.Chart{
		Name:          c.Input.Name,
		Gender:        string(c.Input.Gender),
		SolarDate:     c.SolarDate.String(),
		BirthTime:     c.Input.Time.String(),
		TrueSolarTime: c.Time.Corrected.Format("2006-01-02 15:04:05"),
		OffsetMinutes: c.Time.Offset.Minutes(),
		Location: api.Location{
			Name:      c.Location.Name,
			Longitude: c.Location.Longitude,
			Latitude:  c.Location.Latitude,
			Source:    c.Location.Source,
		},
		Pillars: make([]api.Pillar, 0, len(c.Pillars)),
		Luck:    MapLuckDomainToApi(c.Luck),
	}
	for _, pos := range domain.PillarPositions {
		p := MapPillarDomainToApi(c.Pillar(pos))
		p.Position = pos.String()
		res.Pillars = append(res.Pillars, p)
	}
	return res
}

func MapSectionDomainToApi(s domain.AnalysisSection) api.Section {
	res := api.Section{
		Category: s.Category.String(),
		Subject:  s.Subject,
		Title:    s.Title,
		Content:  s.Content,
		Summary:  map[string]any{},
		Details:  make([]api.Detail, 0, len(s.Details)),
	}
	// copy summary as-is
	for k, v := range s.Summary {
		res.Summary[k] = v
	}
	for _, d := range s.Details {
		res.Details = append(res.Details, api.Detail{
			Name:        d.Name,
			Value:       d.Value,
			Unit:        d.Unit,
			Description: d.Description,
		})
	}
	return res
}

func MapSubjectStatusDomainToApi(s domain.SubjectStatus) api.SubjectStatus {
	return api.SubjectStatus{
		Label:  s.Label,
		Name:   s.Name,
		Failed: s.Failed,
		Stage:  string(s.Stage),
		Kind:   s.Kind,
		Error:  s.Error,
	}
}

func MapReportDomainToApi(r domain.Report) api.Report {
	res := api.Report{
		Title:    r.Title,
		Summary:  r.SubjectSummary,
		Charts:   make([]api.Chart, 0, len(r.Charts)),
		Subjects: make([]api.SubjectStatus, 0, len(r.Subjects)),
		Sections: make([]api.Section, 0, len(r.Sections)),
		Warnings: r.Warnings,
	}
	for _, c := range r.Charts {
		res.Charts = append(res.Charts, MapChartDomainToApi(c))
	}
	for _, s := range r.Subjects {
		res.Subjects = append(res.Subjects, MapSubjectStatusDomainToApi(s))
	}
	for _, s := range r.Sections {
		res.Sections = append(res.Sections, MapSectionDomainToApi(s))
	}
	if r.Compatibility != nil {
		c := &api.Compatibility{
			Score:     r.Compatibility.Score,
			Raw:       r.Compatibility.Raw,
			SubScores: make([]api.SubScore, 0, len(r.Compatibility.SubScores)),
		}
		for _, s := range r.Compatibility.SubScores {
			c.SubScores = append(c.SubScores, api.SubScore{Name: s.Name, Points: s.Points, Directional: s.Directional})
		}
		res.Compatibility = c
	}
	return res
}
