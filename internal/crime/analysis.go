package crime

import (
	"sort"
	"time"
)

// View is the dashboard's date-range and district selection. Zero dates
// leave that end open; an empty Districts list selects every labelled
// district.
type View struct {
	From      time.Time
	To        time.Time
	Districts []string
}

// Apply returns the incidents inside the view. Dates compare by calendar day
// and both ends are inclusive. Undated incidents never match, and neither do
// incidents without a district when the file has a DISTRICT column. The
// dataset is not modified.
func (v View) Apply(d *Dataset) []Incident {
	if d == nil {
		return nil
	}
	var want map[string]bool
	if len(v.Districts) > 0 {
		want = make(map[string]bool, len(v.Districts))
		for _, s := range v.Districts {
			want[s] = true
		}
	}
	_, byDistrict := d.Categories[ColDistrict]
	from, to := day(v.From), day(v.To)
	out := make([]Incident, 0, len(d.Incidents))
	for _, inc := range d.Incidents {
		if !inc.Dated() {
			continue
		}
		if byDistrict && inc.District.IsMissing() {
			continue
		}
		on := day(inc.OccurredOn)
		if !v.From.IsZero() && on.Before(from) {
			continue
		}
		if !v.To.IsZero() && on.After(to) {
			continue
		}
		if want != nil && !want[inc.District.Label()] {
			continue
		}
		out = append(out, inc)
	}
	return out
}

// DateRange returns the first and last calendar day in the dataset.
// Undated incidents are ignored.
func DateRange(d *Dataset) (time.Time, time.Time) {
	var lo, hi time.Time
	for _, inc := range d.Incidents {
		if !inc.Dated() {
			continue
		}
		if lo.IsZero() || inc.OccurredOn.Before(lo) {
			lo = inc.OccurredOn
		}
		if hi.IsZero() || inc.OccurredOn.After(hi) {
			hi = inc.OccurredOn
		}
	}
	return day(lo), day(hi)
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

// KPI is the headline metric strip.
type KPI struct {
	Total      int    `json:"total"`
	Shootings  int    `json:"shootings"`
	PeakHour   int    `json:"peakHour"`
	TopOffense string `json:"topOffense"`
	PartOne    int    `json:"partOne"`
}

// KPIs summarises incidents. Shootings are counted from the numeric
// indicator. Ties for peak hour and top offense go to the smallest value.
// PeakHour is -1 when there are no incidents.
func KPIs(incidents []Incident) KPI {
	k := KPI{Total: len(incidents), PeakHour: -1}
	hours := map[int]int{}
	offenses := map[string]int{}
	for _, inc := range incidents {
		k.Shootings += inc.IsShooting
		hours[inc.Hour]++
		if !inc.OffenseCodeGroup.IsMissing() {
			offenses[inc.OffenseCodeGroup.Label()]++
		}
		if inc.UCRPart.Is(PartOne) {
			k.PartOne++
		}
	}
	best := 0
	for h, c := range hours {
		if c > best || (c == best && h < k.PeakHour) {
			k.PeakHour, best = h, c
		}
	}
	best = 0
	for o, c := range offenses {
		if c > best || (c == best && o < k.TopOffense) {
			k.TopOffense, best = o, c
		}
	}
	return k
}

// DayCount is the number of incidents on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyCounts returns incidents per day in date order. Undated incidents
// are skipped.
func DailyCounts(incidents []Incident) []DayCount {
	counts := map[string]int{}
	for _, inc := range incidents {
		if !inc.Dated() {
			continue
		}
		counts[inc.OccurredOn.Format("2006-01-02")]++
	}
	out := make([]DayCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DayCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Weekdays is the display order of the weekly rhythm chart.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayCount is the number of incidents on one day of the week.
type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WeekdayCounts returns one entry per weekday, Monday first. Incidents
// without a DAY_OF_WEEK label fall back to the timestamp's weekday.
func WeekdayCounts(incidents []Incident) []WeekdayCount {
	counts := map[string]int{}
	for _, inc := range incidents {
		label := inc.DayOfWeek.Label()
		if label == "" {
			if !inc.Dated() {
				continue
			}
			label = inc.OccurredOn.Weekday().String()
		}
		counts[label]++
	}
	out := make([]WeekdayCount, len(Weekdays))
	for i, d := range Weekdays {
		out[i] = WeekdayCount{Day: d, Count: counts[d]}
	}
	return out
}

// LabelCount pairs a label with its frequency.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OffenseGroup is one ring of the composition chart.
type OffenseGroup struct {
	Group        string       `json:"group"`
	Count        int          `json:"count"`
	Descriptions []LabelCount `json:"descriptions"`
}

// OffenseComposition returns the n most frequent offense groups, each with
// its description breakdown. n <= 0 keeps every group.
func OffenseComposition(incidents []Incident, n int) []OffenseGroup {
	groups := map[string]map[string]int{}
	totals := map[string]int{}
	for _, inc := range incidents {
		if inc.OffenseCodeGroup.IsMissing() {
			continue
		}
		g := inc.OffenseCodeGroup.Label()
		if groups[g] == nil {
			groups[g] = map[string]int{}
		}
		groups[g][inc.OffenseDescription]++
		totals[g]++
	}
	out := make([]OffenseGroup, 0, len(groups))
	for g, descs := range groups {
		og := OffenseGroup{Group: g, Count: totals[g]}
		for d, c := range descs {
			og.Descriptions = append(og.Descriptions, LabelCount{Label: d, Count: c})
		}
		sortCounts(og.Descriptions)
		out = append(out, og)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Group < out[j].Group
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortCounts(lc []LabelCount) {
	sort.Slice(lc, func(i, j int) bool {
		if lc[i].Count != lc[j].Count {
			return lc[i].Count > lc[j].Count
		}
		return lc[i].Label < lc[j].Label
	})
}

// Point is a map marker.
type Point struct {
	Lat         float64 `json:"lat"`
	Long        float64 `json:"long"`
	Description string  `json:"description"`
}

// MapData is what the map layer needs: the view centre and the shooting overlay.
type MapData struct {
	CenterLat  float64 `json:"centerLat"`
	CenterLong float64 `json:"centerLong"`
	Points     int     `json:"points"`
	Shootings  []Point `json:"shootings"`
}

// MapSummary centres the map on the mean coordinate and collects shootings.
func MapSummary(incidents []Incident) MapData {
	m := MapData{Points: len(incidents), Shootings: []Point{}}
	if len(incidents) == 0 {
		return m
	}
	for _, inc := range incidents {
		m.CenterLat += inc.Lat
		m.CenterLong += inc.Long
		if inc.IsShooting == 1 {
			m.Shootings = append(m.Shootings, Point{Lat: inc.Lat, Long: inc.Long, Description: inc.OffenseDescription})
		}
	}
	m.CenterLat /= float64(len(incidents))
	m.CenterLong /= float64(len(incidents))
	return m
}
