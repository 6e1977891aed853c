// Package movies loads the top-rated movie dataset and computes the
// aggregates shown by the movie explorer.
package movies

// Column names as they appear in the CSV and JSON exports.
const (
	ColTitle        = "title"
	ColYear         = "year"
	ColDuration     = "duration"
	ColRatingValue  = "ratingValue"
	ColGross        = "gross"
	ColDescription  = "description"
	ColCastList     = "castList"
	ColDirectorList = "directorList"
	ColGenreList    = "genreList"
)

// ListColumns are stored as literal-sequence text in CSV exports.
var ListColumns = []string{ColCastList, ColDirectorList, ColGenreList}

// Movie is one film. Year, RatingValue and Gross are nil when the source
// leaves them empty.
type Movie struct {
	Title        string   `json:"title"`
	Year         *int     `json:"year"`
	Duration     int      `json:"duration"`
	RatingValue  *float64 `json:"ratingValue"`
	Gross        *float64 `json:"gross"`
	Description  string   `json:"description"`
	CastList     []string `json:"castList"`
	DirectorList []string `json:"directorList"`
	GenreList    []string `json:"genreList"`
}

// ReleaseYear returns the year and whether one is known.
func (m Movie) ReleaseYear() (int, bool) {
	if m.Year == nil {
		return 0, false
	}
	return *m.Year, true
}

// Rating returns the rating and whether one is known.
func (m Movie) Rating() (float64, bool) {
	if m.RatingValue == nil {
		return 0, false
	}
	return *m.RatingValue, true
}

// Decade is the year rounded down to the nearest ten.
func (m Movie) Decade() (int, bool) {
	y, ok := m.ReleaseYear()
	return y / 10 * 10, ok
}

// HasGenre reports whether any of genres is listed for the movie.
func (m Movie) HasGenre(genres ...string) bool {
	for _, g := range m.GenreList {
		for _, want := range genres {
			if g == want {
				return true
			}
		}
	}
	return false
}

// DirectedBy reports whether name is among the directors.
func (m Movie) DirectedBy(name string) bool {
	for _, d := range m.DirectorList {
		if d == name {
			return true
		}
	}
	return false
}

// Dataset is a loaded movie file.
type Dataset struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Movies  []Movie  `json:"movies"`
}

// Has reports whether col was present in the source file.
func (d *Dataset) Has(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of movies.
func (d *Dataset) Len() int { return len(d.Movies) }
