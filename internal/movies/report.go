package movies

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// ReportOptions controls which sections the movie report contains.
type ReportOptions struct {
	EpicMinDuration int
	Director        string
	TopN            int
	GenreTopN       int
	Filter          *Filter
	Rand            *rand.Rand
}

// Report is the JSON form of the movie explorer pages.
type Report struct {
	Dataset        string           `json:"dataset"`
	Overview       Overview         `json:"overview"`
	Epics          []Movie          `json:"epics"`
	Marathon       DirectorMarathon `json:"marathon"`
	ScreenTime     []ActorTotal     `json:"topActorsByScreenTime"`
	Appearances    []ActorTotal     `json:"topActorsByAppearances"`
	ActorGross     []ActorTotal     `json:"topActorsByGross,omitempty"`
	Genres         []GenreStat      `json:"genres"`
	Timeline       []PeriodStat     `json:"timeline"`
	Decades        []PeriodStat     `json:"decades"`
	Matches        []Movie          `json:"matches,omitempty"`
	Recommendation *Movie           `json:"recommendation,omitempty"`
	Notes          []string         `json:"notes,omitempty"`
}

// BuildReport computes every section of the report.
func BuildReport(d *Dataset, opt ReportOptions) *Report {
	ms := d.Movies
	r := &Report{
		Dataset:     d.Name,
		Overview:    Summarize(ms),
		Epics:       Epic(ms, opt.EpicMinDuration),
		Marathon:    ByDirector(ms, opt.Director),
		ScreenTime:  TopActorsByScreenTime(ms, opt.TopN),
		Appearances: TopActorsByAppearances(ms, opt.TopN),
		Genres:      GenreStats(ms, opt.GenreTopN),
		Timeline:    Timeline(ms),
		Decades:     Decades(ms),
	}
	if d.Has(ColGross) {
		r.ActorGross = TopActorsByGross(ms, opt.TopN)
	} else {
		r.Notes = append(r.Notes, "column \"gross\" not present; gross rankings skipped")
	}
	for _, col := range ListColumns {
		if !d.Has(col) {
			r.Notes = append(r.Notes, fmt.Sprintf("column %q not present; treated as empty lists", col))
		}
	}
	if opt.Filter != nil {
		r.Matches = opt.Filter.Apply(ms)
		if m, ok := Recommend(r.Matches, opt.Rand); ok {
			r.Recommendation = &m
		} else {
			r.Notes = append(r.Notes, "no movies match the filter")
		}
	}
	return r
}

// Markdown renders the report for a terminal.
func (r *Report) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Movie Explorer: %s\n\n", r.Dataset)
	o := r.Overview
	fmt.Fprintf(&sb, "- Movies: %d\n- Mean rating: %.2f\n- Total gross: $%s\n- Years: %d-%d\n\n",
		o.Count, o.MeanRating, money(o.TotalGross), o.MinYear, o.MaxYear)

	sb.WriteString("## Epic films\n\n")
	rows := make([][]string, 0, len(r.Epics))
	for _, m := range r.Epics {
		rows = append(rows, []string{utils.Truncate(m.Title, 40), yearText(m), strconv.Itoa(m.Duration)})
	}
	writeTable(&sb, []string{"Title", "Year", "Minutes"}, rows)

	if r.Marathon.Director != "" {
		fmt.Fprintf(&sb, "## %s marathon\n\n", r.Marathon.Director)
		rows = rows[:0]
		for _, m := range r.Marathon.Movies {
			rows = append(rows, []string{yearText(m), utils.Truncate(m.Title, 40), strconv.Itoa(m.Duration)})
		}
		writeTable(&sb, []string{"Year", "Title", "Minutes"}, rows)
		fmt.Fprintf(&sb, "Total: %d minutes (%.1f hours)\n\n", r.Marathon.TotalMinutes, r.Marathon.Hours())
	}

	writeActors(&sb, "Top actors by screen time", "Minutes", r.ScreenTime, "%.0f")
	writeActors(&sb, "Top actors by appearances", "Films", r.Appearances, "%.0f")
	if r.ActorGross != nil {
		writeActors(&sb, "Top actors by gross", "Gross", r.ActorGross, "$%.0f")
	}

	sb.WriteString("## Genres\n\n")
	rows = rows[:0]
	for _, g := range r.Genres {
		rows = append(rows, []string{g.Genre, strconv.Itoa(g.Count), fmt.Sprintf("%.2f", g.AvgRating), fmt.Sprintf("%.1f", g.TotalGrossMil)})
	}
	writeTable(&sb, []string{"Genre", "Films", "Avg rating", "Gross (M)"}, rows)

	sb.WriteString("## Decades\n\n")
	rows = rows[:0]
	for _, p := range r.Decades {
		rows = append(rows, []string{fmt.Sprintf("%ds", p.Period), strconv.Itoa(p.Count), fmt.Sprintf("%.2f", p.MeanRating), money(p.TotalGross)})
	}
	writeTable(&sb, []string{"Decade", "Films", "Mean rating", "Gross"}, rows)

	if r.Matches != nil || r.Recommendation != nil {
		fmt.Fprintf(&sb, "## Recommender\n\n%d matching movies.\n\n", len(r.Matches))
		if m := r.Recommendation; m != nil {
			rating, _ := m.Rating()
			fmt.Fprintf(&sb, "Pick: **%s** (%s), %.1f, %d min\n\n", m.Title, yearText(*m), rating, m.Duration)
			if m.Description != "" {
				fmt.Fprintf(&sb, "> %s\n\n", utils.Truncate(m.Description, 200))
			}
		}
	}

	if len(r.Notes) > 0 {
		sb.WriteString("## Notes\n\n")
		for _, n := range r.Notes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
	}
	return sb.String()
}

// RenderReport builds and renders the Markdown report in one step.
func RenderReport(d *Dataset, opt ReportOptions) string {
	return BuildReport(d, opt).Markdown()
}

func writeActors(sb *strings.Builder, title, unit string, list []ActorTotal, format string) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{a.Actor, fmt.Sprintf(format, a.Value)})
	}
	writeTable(sb, []string{"Actor", unit}, rows)
}

func writeTable(sb *strings.Builder, header []string, rows [][]string) {
	if len(rows) == 0 {
		sb.WriteString("_none_\n\n")
		return
	}
	sb.WriteString(utils.MarkdownTable(header, rows))
	sb.WriteString("\n")
}

func money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func yearText(m Movie) string {
	if y, ok := m.ReleaseYear(); ok {
		return strconv.Itoa(y)
	}
	return "n/a"
}
