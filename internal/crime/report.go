package crime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// Report is the JSON form of the crime dashboard.
type Report struct {
	Dataset     string         `json:"dataset"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Districts   []string       `json:"districts"`
	Records     int            `json:"records"`
	Dropped     int            `json:"droppedAtLoad"`
	KPI         KPI            `json:"kpi"`
	Daily       []DayCount     `json:"daily"`
	Weekdays    []WeekdayCount `json:"weekdays"`
	Composition []OffenseGroup `json:"composition"`
	Map         MapData        `json:"map"`
}

// BuildReport applies v to d and computes every dashboard panel. offenseTopN
// bounds the composition panel.
func BuildReport(d *Dataset, v View, offenseTopN int) *Report {
	lo, hi := DateRange(d)
	if !v.From.IsZero() {
		lo = day(v.From)
	}
	if !v.To.IsZero() {
		hi = day(v.To)
	}
	districts := v.Districts
	if len(districts) == 0 {
		districts = d.Labels(ColDistrict)
	}
	sel := v.Apply(d)
	return &Report{
		Dataset:     d.Name,
		From:        lo.Format("2006-01-02"),
		To:          hi.Format("2006-01-02"),
		Districts:   districts,
		Records:     len(sel),
		Dropped:     d.Dropped,
		KPI:         KPIs(sel),
		Daily:       DailyCounts(sel),
		Weekdays:    WeekdayCounts(sel),
		Composition: OffenseComposition(sel, offenseTopN),
		Map:         MapSummary(sel),
	}
}

// Markdown renders the report for a terminal.
func (r *Report) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Operations Dashboard: %s\n\n", r.Dataset)
	fmt.Fprintf(&sb, "Data scope: %s to %s | Records: %d", r.From, r.To, r.Records)
	if r.Dropped > 0 {
		fmt.Fprintf(&sb, " | Dropped without location: %d", r.Dropped)
	}
	sb.WriteString("\n\n## Key indicators\n\n")
	peak := "n/a"
	if r.KPI.PeakHour >= 0 {
		peak = fmt.Sprintf("%d:00", r.KPI.PeakHour)
	}
	top := r.KPI.TopOffense
	if top == "" {
		top = "n/a"
	}
	sb.WriteString(utils.MarkdownTable([]string{"Metric", "Value"}, [][]string{
		{"Total incidents", strconv.Itoa(r.KPI.Total)},
		{"Confirmed shootings", strconv.Itoa(r.KPI.Shootings)},
		{"Peak activity hour", peak},
		{"Top offense type", top},
		{"Serious crimes (Part One)", strconv.Itoa(r.KPI.PartOne)},
	}))

	sb.WriteString("\n## Daily trend\n\n")
	rows := make([][]string, 0, len(r.Daily))
	for _, dc := range r.Daily {
		rows = append(rows, []string{dc.Date, strconv.Itoa(dc.Count)})
	}
	if len(rows) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString(utils.MarkdownTable([]string{"Date", "Incidents"}, rows))
	}

	sb.WriteString("\n## Weekly rhythm\n\n")
	rows = make([][]string, 0, len(r.Weekdays))
	for _, w := range r.Weekdays {
		rows = append(rows, []string{w.Day, strconv.Itoa(w.Count)})
	}
	sb.WriteString(utils.MarkdownTable([]string{"Day", "Incidents"}, rows))

	sb.WriteString("\n## Crime composition\n\n")
	rows = make([][]string, 0, len(r.Composition))
	for _, g := range r.Composition {
		desc := ""
		if len(g.Descriptions) > 0 {
			desc = fmt.Sprintf("%s (%d)", g.Descriptions[0].Label, g.Descriptions[0].Count)
		}
		rows = append(rows, []string{g.Group, strconv.Itoa(g.Count), utils.Truncate(desc, 50)})
	}
	if len(rows) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString(utils.MarkdownTable([]string{"Offense group", "Incidents", "Top description"}, rows))
	}

	sb.WriteString("\n## Map\n\n")
	fmt.Fprintf(&sb, "Centre: %.5f, %.5f | Points: %d | Shooting markers: %d\n",
		r.Map.CenterLat, r.Map.CenterLong, r.Map.Points, len(r.Map.Shootings))
	return sb.String()
}

// RenderReport builds and renders the Markdown report in one step.
func RenderReport(d *Dataset, v View, offenseTopN int) string {
	return BuildReport(d, v, offenseTopN).Markdown()
}
