package table

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Reader turns a byte stream into a Frame.
type Reader interface {
	CanRead(name string) bool
	Read(name string, r io.Reader) (*Frame, error)
}

var registry []Reader

// Register adds a reader. Readers are consulted in registration order.
func Register(rd Reader) {
	registry = append(registry, rd)
}

// ReaderFor selects a reader by file name. Names ending in .csv or .tsv use
// the delimited reader; everything else falls through to JSON.
func ReaderFor(name string) Reader {
	for _, rd := range registry {
		if rd.CanRead(name) {
			return rd
		}
	}
	return jsonReader{}
}

// Read loads r using the reader chosen for name.
func Read(name string, r io.Reader) (*Frame, error) {
	return ReaderFor(name).Read(name, r)
}

func init() {
	Register(csvReader{})
	Register(jsonReader{})
}

// DefaultNAValues are the cell texts treated as missing in delimited input.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// CSVOptions controls delimited parsing.
type CSVOptions struct {
	// Delimiter for CSV. If 0, chosen from the file name (',' or '\t' for .tsv).
	Delimiter rune
	// NAValues are cell texts read as missing. Nil means DefaultNAValues.
	NAValues []string
}

type csvReader struct{}

func (csvReader) CanRead(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv")
}

func (csvReader) Read(name string, r io.Reader) (*Frame, error) {
	return ReadCSV(name, r, CSVOptions{})
}

// ReadCSV parses delimited text with a header row. Empty and NA cells are nil;
// short rows are padded, rows longer than the header are rejected.
func ReadCSV(name string, r io.Reader, opt CSVOptions) (*Frame, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	na := opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	naSet := make(map[string]struct{}, len(na))
	for _, v := range na {
		naSet[v] = struct{}{}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewFrame(filepath.Base(name), nil, nil), nil
		}
		return nil, csvError(err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[i] = strings.TrimSpace(h)
	}

	var rows [][]Value
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, csvError(err)
		}
		if len(rec) > len(cols) {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{
				Format: "csv",
				Line:   line,
				Err:    fmt.Errorf("expected %d fields, saw %d", len(cols), len(rec)),
			}
		}
		row := make([]Value, len(cols))
		for j, cell := range rec {
			if _, missing := naSet[strings.TrimSpace(cell)]; missing {
				continue
			}
			row[j] = cell
		}
		rows = append(rows, row)
	}
	return NewFrame(filepath.Base(name), cols, rows), nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Format: "csv", Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Format: "csv", Err: err}
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

type jsonReader struct{}

// CanRead accepts any name; the JSON reader is the fallback.
func (jsonReader) CanRead(string) bool { return true }

func (jsonReader) Read(name string, r io.Reader) (*Frame, error) {
	return ReadJSON(name, r)
}

// ReadJSON parses a top-level array of objects. Columns follow first
// appearance; keys missing from a record are nil.
func ReadJSON(name string, r io.Reader) (*Frame, error) {
	dec := json.NewDecoder(r)
	fail := func(err error) error {
		return &ParseError{Format: "json", Offset: dec.InputOffset(), Err: err}
	}

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fail(errors.New("empty document"))
		}
		return nil, fail(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fail(errors.New("expected an array of records"))
	}

	var (
		cols    []string
		index   = map[string]int{}
		records []map[string]Value
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fail(err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fail(fmt.Errorf("record %d is not an object", len(records)+1))
		}
		rec := map[string]Value{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, fail(err)
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fail(fmt.Errorf("record %d: expected key", len(records)+1))
			}
			var v Value
			if err := dec.Decode(&v); err != nil {
				return nil, fail(fmt.Errorf("record %d, key %q: %w", len(records)+1, key, err))
			}
			if _, seen := index[key]; !seen {
				index[key] = len(cols)
				cols = append(cols, key)
			}
			rec[key] = v
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, fail(err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, fail(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fail(errors.New("unexpected data after array"))
	}

	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(cols))
		for k, v := range rec {
			row[index[k]] = v
		}
		rows[i] = row
	}
	return NewFrame(filepath.Base(name), cols, rows), nil
}
