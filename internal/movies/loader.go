package movies

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/KaramelBytes/tabloom-cli/internal/literal"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

// ErrDecode is matched by every DecodeError.
var ErrDecode = literal.ErrDecode

// DecodeError reports a list-valued cell that is not a valid literal sequence.
type DecodeError struct {
	Column string
	Row    int // 1-based data row
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s row %d: %v", e.Column, e.Row, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Load parses a movie file. Names ending in .csv are read as delimited text,
// anything else as a JSON array of records. Parse failures and undecodable
// list cells abort the load; no rows are dropped.
func Load(name string, r io.Reader, log hclog.Logger) (*Dataset, error) {
	log = logging.OrNull(log)
	format := "json"
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		format = "csv"
	}

	var (
		f   *table.Frame
		err error
	)
	if format == "csv" {
		f, err = table.ReadCSV(name, r, table.CSVOptions{})
	} else {
		f, err = table.ReadJSON(name, r)
	}
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}

	lists := make(map[string][][]string, len(ListColumns))
	for _, col := range ListColumns {
		if !f.Has(col) {
			continue
		}
		vals, err := decodeListColumn(f, col, log)
		if err != nil {
			return nil, fmt.Errorf("load movies: %w", err)
		}
		lists[col] = vals
	}

	d := &Dataset{
		Name:    f.Name,
		Columns: append([]string(nil), f.Columns...),
		Movies:  make([]Movie, f.Len()),
	}
	for i := range d.Movies {
		m, err := movieAt(f, i, format)
		if err != nil {
			return nil, fmt.Errorf("load movies: %w", err)
		}
		if v, ok := lists[ColCastList]; ok {
			m.CastList = v[i]
		}
		if v, ok := lists[ColDirectorList]; ok {
			m.DirectorList = v[i]
		}
		if v, ok := lists[ColGenreList]; ok {
			m.GenreList = v[i]
		}
		d.Movies[i] = m
	}
	log.Debug("movies loaded", "file", d.Name, "rows", d.Len(), "columns", len(d.Columns))
	return d, nil
}

// decodeListColumn turns one list column into string slices. When the first
// non-missing cell is text, every cell must be literal-sequence text;
// otherwise cells are taken as structured arrays.
func decodeListColumn(f *table.Frame, col string, log hclog.Logger) ([][]string, error) {
	vals := f.Column(col)
	textMode := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		_, textMode = v.(string)
		break
	}

	out := make([][]string, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = []string{}
			continue
		}
		if textMode {
			s, ok := v.(string)
			if !ok {
				return nil, &DecodeError{Column: col, Row: i + 1, Err: fmt.Errorf("%w: expected text, got %T", ErrDecode, v)}
			}
			items, err := literal.ParseStrings(s)
			if err != nil {
				return nil, &DecodeError{Column: col, Row: i + 1, Err: err}
			}
			out[i] = items
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			log.Debug("non-list value in list column", "column", col, "row", i+1)
			out[i] = []string{}
			continue
		}
		items := make([]string, len(arr))
		for j, it := range arr {
			s, ok := it.(string)
			if !ok {
				return nil, &DecodeError{Column: col, Row: i + 1, Err: fmt.Errorf("%w: element %d is %T, not text", ErrDecode, j, it)}
			}
			items[j] = s
		}
		out[i] = items
	}
	return out, nil
}

func movieAt(f *table.Frame, i int, format string) (Movie, error) {
	var m Movie
	fail := func(col string, err error) error {
		pe := &table.ParseError{Format: format, Column: col, Err: fmt.Errorf("record %d: %w", i+1, err)}
		if format == "csv" {
			pe.Line = i + 2
		}
		return pe
	}

	m.Title, _ = table.AsString(f.Cell(i, ColTitle))
	m.Description, _ = table.AsString(f.Cell(i, ColDescription))

	year, ok, err := table.AsInt(f.Cell(i, ColYear), table.USNumbers)
	if err != nil {
		return m, fail(ColYear, err)
	}
	if ok {
		m.Year = &year
	}

	dur, _, err := table.AsInt(f.Cell(i, ColDuration), table.USNumbers)
	if err != nil {
		return m, fail(ColDuration, err)
	}
	m.Duration = dur

	rating, ok, err := table.AsFloat(f.Cell(i, ColRatingValue), table.USNumbers)
	if err != nil {
		return m, fail(ColRatingValue, err)
	}
	if ok {
		m.RatingValue = &rating
	}

	gross, ok, err := table.AsFloat(f.Cell(i, ColGross), table.USNumbers)
	if err != nil {
		return m, fail(ColGross, err)
	}
	if ok {
		m.Gross = &gross
	}
	return m, nil
}

// IsDecodeError reports whether err came from an undecodable list cell.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
