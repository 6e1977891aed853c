package movies

import (
	"math/rand"
	"sort"
)

// Overview holds the headline numbers of a dataset.
type Overview struct {
	Count      int     `json:"count"`
	MeanRating float64 `json:"meanRating"`
	TotalGross float64 `json:"totalGross"`
	MinYear    int     `json:"minYear"`
	MaxYear    int     `json:"maxYear"`
}

// Summarize computes the overview of ms. Missing ratings and years are
// left out of the mean and the year range.
func Summarize(ms []Movie) Overview {
	var o Overview
	if len(ms) == 0 {
		return o
	}
	o.Count = len(ms)
	var rating mean
	seenYear := false
	for _, m := range ms {
		rating.add(m.RatingValue)
		if m.Gross != nil {
			o.TotalGross += *m.Gross
		}
		y, ok := m.ReleaseYear()
		if !ok {
			continue
		}
		if !seenYear || y < o.MinYear {
			o.MinYear = y
		}
		if !seenYear || y > o.MaxYear {
			o.MaxYear = y
		}
		seenYear = true
	}
	o.MeanRating = rating.value()
	return o
}

// mean accumulates the known values of an optional column.
type mean struct {
	sum float64
	n   int
}

func (a *mean) add(v *float64) {
	if v != nil {
		a.sum += *v
		a.n++
	}
}

func (a mean) value() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// Epic returns the films running at least minDuration minutes, longest first.
func Epic(ms []Movie, minDuration int) []Movie {
	var out []Movie
	for _, m := range ms {
		if m.Duration >= minDuration {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Duration > out[j].Duration })
	return out
}

// DirectorMarathon lists one director's films in release order.
type DirectorMarathon struct {
	Director     string  `json:"director"`
	Movies       []Movie `json:"movies"`
	TotalMinutes int     `json:"totalMinutes"`
}

// Hours is the marathon length in hours.
func (d DirectorMarathon) Hours() float64 { return float64(d.TotalMinutes) / 60 }

// ByDirector collects the films directed by name. Films without a year
// come last.
func ByDirector(ms []Movie, name string) DirectorMarathon {
	out := DirectorMarathon{Director: name}
	for _, m := range ms {
		if m.DirectedBy(name) {
			out.Movies = append(out.Movies, m)
			out.TotalMinutes += m.Duration
		}
	}
	sort.SliceStable(out.Movies, func(i, j int) bool {
		yi, oki := out.Movies[i].ReleaseYear()
		yj, okj := out.Movies[j].ReleaseYear()
		if oki != okj {
			return oki
		}
		return yi < yj
	})
	return out
}

// ActorTotal is one entry of an actor ranking. Value is minutes, film count
// or gross depending on the ranking.
type ActorTotal struct {
	Actor string  `json:"actor"`
	Value float64 `json:"value"`
}

// TopActorsByScreenTime ranks actors by the summed duration of their films.
func TopActorsByScreenTime(ms []Movie, n int) []ActorTotal {
	return rankActors(ms, n, func(m Movie) (float64, bool) { return float64(m.Duration), true })
}

// TopActorsByAppearances ranks actors by number of films.
func TopActorsByAppearances(ms []Movie, n int) []ActorTotal {
	return rankActors(ms, n, func(Movie) (float64, bool) { return 1, true })
}

// TopActorsByGross ranks actors by the summed gross of films that report one.
func TopActorsByGross(ms []Movie, n int) []ActorTotal {
	return rankActors(ms, n, func(m Movie) (float64, bool) {
		if m.Gross == nil {
			return 0, false
		}
		return *m.Gross, true
	})
}

func rankActors(ms []Movie, n int, weight func(Movie) (float64, bool)) []ActorTotal {
	totals := map[string]float64{}
	for _, m := range ms {
		w, ok := weight(m)
		if !ok {
			continue
		}
		for _, a := range m.CastList {
			totals[a] += w
		}
	}
	out := make([]ActorTotal, 0, len(totals))
	for a, v := range totals {
		out = append(out, ActorTotal{Actor: a, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Actor < out[j].Actor
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// GenreStat aggregates the films tagged with one genre.
type GenreStat struct {
	Genre         string  `json:"genre"`
	Count         int     `json:"count"`
	AvgRating     float64 `json:"avgRating"`
	TotalGrossMil float64 `json:"totalGrossMillions"`
}

// GenreStats returns the n most frequent genres. A film counts once per genre
// it lists; unrated films do not enter the average.
func GenreStats(ms []Movie, n int) []GenreStat {
	idx := map[string]int{}
	var out []GenreStat
	var ratings []mean
	for _, m := range ms {
		for _, g := range m.GenreList {
			i, ok := idx[g]
			if !ok {
				i = len(out)
				idx[g] = i
				out = append(out, GenreStat{Genre: g})
				ratings = append(ratings, mean{})
			}
			out[i].Count++
			ratings[i].add(m.RatingValue)
			if m.Gross != nil {
				out[i].TotalGrossMil += *m.Gross / 1e6
			}
		}
	}
	for i := range out {
		out[i].AvgRating = ratings[i].value()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PeriodStat aggregates the films of one year or decade.
type PeriodStat struct {
	Period     int     `json:"period"`
	Count      int     `json:"count"`
	MeanRating float64 `json:"meanRating"`
	TotalGross float64 `json:"totalGross"`
}

// Timeline groups films by release year, oldest first. Films without a
// year are not grouped.
func Timeline(ms []Movie) []PeriodStat {
	return groupBy(ms, Movie.ReleaseYear)
}

// Decades groups films by decade, oldest first.
func Decades(ms []Movie) []PeriodStat {
	return groupBy(ms, Movie.Decade)
}

func groupBy(ms []Movie, key func(Movie) (int, bool)) []PeriodStat {
	byKey := map[int]*PeriodStat{}
	ratings := map[int]*mean{}
	for _, m := range ms {
		k, ok := key(m)
		if !ok {
			continue
		}
		p, ok := byKey[k]
		if !ok {
			p = &PeriodStat{Period: k}
			byKey[k] = p
			ratings[k] = &mean{}
		}
		p.Count++
		ratings[k].add(m.RatingValue)
		if m.Gross != nil {
			p.TotalGross += *m.Gross
		}
	}
	out := make([]PeriodStat, 0, len(byKey))
	for k, p := range byKey {
		p.MeanRating = ratings[k].value()
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// Filter narrows a movie list the way the recommender widgets do. Zero YearTo
// and MaxDuration leave that bound open; empty Genres matches every film.
type Filter struct {
	MinRating   float64  `json:"minRating"`
	YearFrom    int      `json:"yearFrom"`
	YearTo      int      `json:"yearTo"`
	MaxDuration int      `json:"maxDuration"`
	Genres      []string `json:"genres"`
}

// Apply returns the matching films sorted by rating, best first. Films
// without a rating or a year never match.
func (f Filter) Apply(ms []Movie) []Movie {
	var out []Movie
	for _, m := range ms {
		rating, rated := m.Rating()
		year, dated := m.ReleaseYear()
		if !rated || !dated || rating < f.MinRating || year < f.YearFrom {
			continue
		}
		if f.YearTo > 0 && year > f.YearTo {
			continue
		}
		if f.MaxDuration > 0 && m.Duration > f.MaxDuration {
			continue
		}
		if len(f.Genres) > 0 && !m.HasGenre(f.Genres...) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].RatingValue > *out[j].RatingValue })
	return out
}

// Recommend picks one film uniformly at random. It reports false when ms is empty.
func Recommend(ms []Movie, rnd *rand.Rand) (Movie, bool) {
	if len(ms) == 0 {
		return Movie{}, false
	}
	if rnd == nil {
		return ms[rand.Intn(len(ms))], true
	}
	return ms[rnd.Intn(len(ms))], true
}
