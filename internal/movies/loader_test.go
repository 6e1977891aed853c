package movies

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabloom-cli/internal/literal"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

const sampleCSV = `title,year,duration,ratingValue,gross,description,castList,directorList,genreList
Jaws,1975,124,8.1,"$260,000,000",Shark.,"['Roy Scheider', 'Robert Shaw']",['Steven Spielberg'],"['Adventure', 'Thriller']"
Heat,1995,170,8.3,,Cops and robbers.,"['Al Pacino', 'Robert De Niro']",['Michael Mann'],"['Crime', 'Drama']"
Shoah,1985,566,8.7,,Documentary.,[],['Claude Lanzmann'],['Documentary']
`

const sampleJSON = `[
  {"title": "Jaws", "year": 1975, "duration": 124, "ratingValue": 8.1, "gross": 260000000,
   "description": "Shark.", "castList": ["Roy Scheider", "Robert Shaw"],
   "directorList": ["Steven Spielberg"], "genreList": ["Adventure", "Thriller"]},
  {"title": "Heat", "year": 1995, "duration": 170, "ratingValue": 8.3, "gross": null,
   "description": "Cops and robbers.", "castList": ["Al Pacino", "Robert De Niro"],
   "directorList": ["Michael Mann"], "genreList": ["Crime", "Drama"]},
  {"title": "Shoah", "year": 1985, "duration": 566, "ratingValue": 8.7,
   "description": "Documentary.", "castList": [],
   "directorList": ["Claude Lanzmann"], "genreList": ["Documentary"]}
]`

func TestLoad_CSVAndJSONAgree(t *testing.T) {
	fromCSV, err := Load("top.csv", strings.NewReader(sampleCSV), nil)
	require.NoError(t, err)
	fromJSON, err := Load("top.json", strings.NewReader(sampleJSON), nil)
	require.NoError(t, err)

	require.Equal(t, 3, fromCSV.Len())
	assert.Equal(t, fromCSV.Movies, fromJSON.Movies)

	jaws := fromCSV.Movies[0]
	assert.Equal(t, []string{"Roy Scheider", "Robert Shaw"}, jaws.CastList)
	require.NotNil(t, jaws.Gross)
	assert.InDelta(t, 260e6, *jaws.Gross, 0.5)
	assert.Nil(t, fromCSV.Movies[1].Gross)
	assert.Equal(t, []string{}, fromCSV.Movies[2].CastList)
}

func TestLoad_ListText(t *testing.T) {
	in := "title,castList\nA,\"['A', 'B']\"\nB,[]\nC,\n"
	d, err := Load("m.csv", strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, d.Movies[0].CastList)
	assert.Equal(t, []string{}, d.Movies[1].CastList)
	assert.Equal(t, []string{}, d.Movies[2].CastList, "missing cell decodes to an empty list")
	assert.False(t, d.Has(ColGenreList))
	assert.Nil(t, d.Movies[0].GenreList)
}

func TestLoad_MalformedListFails(t *testing.T) {
	in := "title,genreList\nA,['Drama']\nB,\"['Drama', 'Crime'\"\n"
	d, err := Load("m.csv", strings.NewReader(in), nil)
	require.Error(t, err)
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, literal.ErrDecode))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, ColGenreList, de.Column)
	assert.Equal(t, 2, de.Row)
}

func TestLoad_TextModeRejectsStructuredCell(t *testing.T) {
	in := `[{"title": "A", "castList": "['X']"}, {"title": "B", "castList": ["Y"]}]`
	_, err := Load("m.json", strings.NewReader(in), nil)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
}

func TestLoad_StructuredNonStringElementFails(t *testing.T) {
	in := `[{"title": "A", "castList": ["X", 3]}]`
	_, err := Load("m.json", strings.NewReader(in), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestLoad_StructuredScalarBecomesEmpty(t *testing.T) {
	in := `[{"title": "A", "castList": ["X"]}, {"title": "B", "castList": 7}]`
	d, err := Load("m.json", strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, d.Movies[1].CastList)
}

func TestLoad_ParseErrors(t *testing.T) {
	cases := map[string]struct{ name, in string }{
		"bad csv":         {"m.csv", "title,year\n\"Heat,1995\n"},
		"bad json":        {"m.json", `[{"title": }]`},
		"non-numeric":     {"m.csv", "title,year\nHeat,nineteen\n"},
		"json year text":  {"m.json", `[{"title": "Heat", "year": "soon"}]`},
		"suffix not .csv": {"m.txt", "title,year\nHeat,1995\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(tc.name, strings.NewReader(tc.in), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, table.ErrParse), "got %v", err)
		})
	}
}

func TestLoad_KeepsEveryRow(t *testing.T) {
	in := "title,year,duration\nA,,\nB,2001,\n"
	d, err := Load("m.csv", strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Nil(t, d.Movies[0].Year)
	assert.Equal(t, 2001, *d.Movies[1].Year)
	dec, ok := d.Movies[1].Decade()
	assert.True(t, ok)
	assert.Equal(t, 2000, dec)
}

func TestLoad_MissingRatingStaysMissing(t *testing.T) {
	in := "title,year,ratingValue\nA,2000,8\nB,2001,\n"
	d, err := Load("m.csv", strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Nil(t, d.Movies[1].RatingValue)
	assert.Equal(t, 8.0, Summarize(d.Movies).MeanRating)
}
