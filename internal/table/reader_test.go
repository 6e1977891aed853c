package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestReaderFor(t *testing.T) {
	cases := map[string]string{
		"movies.csv":  "table.csvReader",
		"MOVIES.CSV":  "table.csvReader",
		"data.tsv":    "table.csvReader",
		"movies.json": "table.jsonReader",
		"upload":      "table.jsonReader",
	}
	for name, want := range cases {
		got := reflect.TypeOf(ReaderFor(name)).String()
		if got != want {
			t.Fatalf("ReaderFor(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestReadCSV_MissingAndPadding(t *testing.T) {
	in := "\ufefftitle,year,gross\n" +
		"Heat,1995,\n" +
		"Alien,1979,NaN\n" +
		"Short\n"
	f, err := ReadCSV("movies.csv", strings.NewReader(in), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(f.Columns, []string{"title", "year", "gross"}) {
		t.Fatalf("columns = %#v", f.Columns)
	}
	if f.Len() != 3 {
		t.Fatalf("rows = %d, want 3", f.Len())
	}
	if v := f.Cell(0, "gross"); v != nil {
		t.Fatalf("empty cell = %#v, want nil", v)
	}
	if v := f.Cell(1, "gross"); v != nil {
		t.Fatalf("NaN cell = %#v, want nil", v)
	}
	if v := f.Cell(2, "year"); v != nil {
		t.Fatalf("padded cell = %#v, want nil", v)
	}
	if v := f.Cell(1, "year"); v != "1979" {
		t.Fatalf("year = %#v, want \"1979\"", v)
	}
	if f.Name != "movies.csv" {
		t.Fatalf("name = %q", f.Name)
	}
}

func TestReadCSV_QuotedListText(t *testing.T) {
	in := "title,castList\n\"Sleepless in Seattle\",\"['Tom Hanks', 'Meg Ryan']\"\n"
	f, err := ReadCSV("m.csv", strings.NewReader(in), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	first, ok := f.First("castList")
	if !ok || first != "['Tom Hanks', 'Meg Ryan']" {
		t.Fatalf("first castList = %#v", first)
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	cases := map[string]string{
		"too many fields":     "a,b\n1,2,3\n",
		"unterminated quote":  "a,b\n\"1,2\n",
		"bare quote in field": "a,b\n1\"x,2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV("x.csv", strings.NewReader(in), CSVOptions{})
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error %v is not ErrParse", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Format != "csv" || pe.Line == 0 {
				t.Fatalf("unexpected parse error: %#v", err)
			}
		})
	}
}

func TestReadCSV_Empty(t *testing.T) {
	f, err := ReadCSV("empty.csv", strings.NewReader(""), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(f.Columns) != 0 || f.Len() != 0 {
		t.Fatalf("expected empty frame, got %#v", f)
	}
}

func TestReadCSV_TSV(t *testing.T) {
	f, err := Read("x.tsv", strings.NewReader("a\tb\n1\t2\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Cell(0, "b") != "2" {
		t.Fatalf("b = %#v", f.Cell(0, "b"))
	}
}

func TestReadJSON_Records(t *testing.T) {
	in := `[
	  {"title": "Heat", "year": 1995, "genreList": ["Crime", "Drama"]},
	  {"title": "Alien", "gross": null, "extra": true}
	]`
	f, err := ReadJSON("m.json", strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	want := []string{"title", "year", "genreList", "gross", "extra"}
	if !reflect.DeepEqual(f.Columns, want) {
		t.Fatalf("columns = %#v, want %#v", f.Columns, want)
	}
	if f.Cell(0, "year") != 1995.0 {
		t.Fatalf("year = %#v", f.Cell(0, "year"))
	}
	if f.Cell(1, "year") != nil {
		t.Fatalf("missing key should be nil")
	}
	if g, ok := f.Cell(0, "genreList").([]any); !ok || len(g) != 2 {
		t.Fatalf("genreList = %#v", f.Cell(0, "genreList"))
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"object":         `{"title": "Heat"}`,
		"scalar element": `[1, 2]`,
		"nested array":   `[[1]]`,
		"truncated":      `[{"title": "Heat"`,
		"bad syntax":     `[{"title": Heat}]`,
		"trailing data":  `[] []`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadJSON("x.json", strings.NewReader(in))
			if err == nil {
				t.Fatalf("expected error for %q", in)
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error %v is not ErrParse", err)
			}
		})
	}
}

func TestReadJSON_EmptyArray(t *testing.T) {
	f, err := ReadJSON("x.json", strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if f.Len() != 0 || len(f.Columns) != 0 {
		t.Fatalf("expected empty frame")
	}
}

func TestFrame_Column(t *testing.T) {
	f := NewFrame("t", []string{"a", "b"}, [][]Value{{"1", nil}, {"2", "x"}})
	if got := f.Column("a"); !reflect.DeepEqual(got, []Value{"1", "2"}) {
		t.Fatalf("Column(a) = %#v", got)
	}
	if f.Column("zz") != nil {
		t.Fatalf("absent column should be nil")
	}
	if f.Has("zz") {
		t.Fatalf("Has(zz) = true")
	}
}
