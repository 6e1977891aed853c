// Package table reads delimited-text and JSON files into an in-memory Frame
// and provides the coercion helpers the dataset loaders build on.
package table

// Value is a single cell. It holds nil (missing), string, float64, bool,
// []any (a structured list) or map[string]any.
type Value = any

// Frame is a loaded table: ordered column names and rows aligned to them.
type Frame struct {
	Name    string
	Columns []string
	Rows    [][]Value

	index map[string]int
}

// NewFrame builds a frame and its column index.
func NewFrame(name string, columns []string, rows [][]Value) *Frame {
	f := &Frame{Name: name, Columns: columns, Rows: rows}
	f.reindex()
	return f
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.Columns))
	for i, c := range f.Columns {
		if _, dup := f.index[c]; !dup {
			f.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of col.
func (f *Frame) Index(col string) (int, bool) {
	if f.index == nil {
		f.reindex()
	}
	i, ok := f.index[col]
	return i, ok
}

// Has reports whether col is present.
func (f *Frame) Has(col string) bool {
	_, ok := f.Index(col)
	return ok
}

// Column returns every value of col, or nil when the column is absent.
func (f *Frame) Column(col string) []Value {
	i, ok := f.Index(col)
	if !ok {
		return nil
	}
	out := make([]Value, len(f.Rows))
	for r, row := range f.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// First returns the value of col in the first row.
func (f *Frame) First(col string) (Value, bool) {
	i, ok := f.Index(col)
	if !ok || len(f.Rows) == 0 || i >= len(f.Rows[0]) {
		return nil, false
	}
	return f.Rows[0][i], true
}

// Cell returns row r of col, nil when absent.
func (f *Frame) Cell(r int, col string) Value {
	i, ok := f.Index(col)
	if !ok || r < 0 || r >= len(f.Rows) || i >= len(f.Rows[r]) {
		return nil
	}
	return f.Rows[r][i]
}
