package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/yjk624/shinryeong/pkg/adapters"
	"github.com/yjk624/shinryeong/pkg/models/domain"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        24,
		ValueWidth:       14,
		UnitWidth:        6,
		DescriptionWidth: 36,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
{{.Title}}
{{.SubjectSummary}}
{{range .Charts}}
{{pillars .}}
{{luck .Luck}}
{{end}}{{with .Compatibility}}
Compatibility score: {{.Score}}/100{{if ne .Score .Raw}} (raw {{.Raw}}){{end}}
{{range .SubScores}}  {{printf "%-10s" .Name}} {{printf "%+d" .Points}}
{{end}}{{end}}{{range .Subjects}}{{if .Failed}}
Subject {{.Label}}{{if .Name}} ({{.Name}}){{end}} failed at {{.Stage}}: {{.Error}}
{{end}}{{end}}{{range .Sections}}
=== {{.Title}}{{if .Subject}} [{{.Subject}}]{{end}} ===
{{.Content}}
{{if .Details}}
{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
{{end}}{{end}}{{if .Warnings}}
Warnings:
{{range .Warnings}}  - {{.}}
{{end}}{{end}}`

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}, unit string, desc string) string {
			return fmt.Sprintf("| %-*s | %-*v | %-*s | %-*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit,
				c.config.DescriptionWidth, truncate(desc, c.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
		"pillars": formatPillars,
		"luck":    formatLuck,
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// HandleJSON writes the report in its HTTP API form.
func (c *Reporter) HandleJSON(report *domain.Report) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(adapters.MapReportDomainToApi(*report))
}

// HandleConversion prints one calendar conversion.
func (c *Reporter) HandleConversion(solar domain.LocalDate, lunar domain.LocalDate, leap bool) error {
	note := ""
	if leap {
		note = " (leap month)"
	}
	_, err := fmt.Fprintf(c.writer, "solar %s = lunar %s%s\n", solar, lunar, note)
	return err
}

// HandleList prints one item per line.
func (c *Reporter) HandleList(items []string) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(c.writer, item); err != nil {
			return err
		}
	}
	return nil
}

// formatPillars lays the chart out hour to year, right to left, as charts
// are traditionally read.
func formatPillars(chart domain.Chart) string {
	positions := []domain.PillarPosition{domain.HourPillar, domain.DayPillar, domain.MonthPillar, domain.YearPillar}
	var head, hanja, keys strings.Builder
	for _, pos := range positions {
		p := chart.Pillar(pos)
		fmt.Fprintf(&head, "%-12s", pos)
		fmt.Fprintf(&hanja, "%-10s", p.Hanja()+" "+p.Hangul())
		fmt.Fprintf(&keys, "%-12s", p.Key())
	}
	name := chart.Input.Name
	if name == "" {
		name = "chart"
	}
	return fmt.Sprintf("%s\n  %s\n  %s\n  %s",
		name,
		strings.TrimRight(head.String(), " "),
		strings.TrimRight(hanja.String(), " "),
		strings.TrimRight(keys.String(), " "))
}

func formatLuck(l domain.LuckSchedule) string {
	if len(l.Cycles) == 0 {
		return ""
	}
	direction := "backward"
	if l.Forward {
		direction = "forward"
	}
	parts := make([]string, len(l.Cycles))
	for i, c := range l.Cycles {
		parts[i] = fmt.Sprintf("%d:%s", c.StartAge, c.Pillar.Key())
	}
	return fmt.Sprintf("  luck (%s, from age %d): %s", direction, l.StartAge, strings.Join(parts, " "))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}
