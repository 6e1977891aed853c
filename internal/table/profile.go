package table

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/literal"
)

// ProfileOptions controls column profiling.
type ProfileOptions struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// Numbers controls numeric detection for text cells.
	Numbers NumberOptions
}

// DefaultProfileOptions returns reasonable defaults for profiling.
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{MaxRows: 100000, SampleRows: 5}
}

// Report is a markdown-friendly profile of a Frame.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|list|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// List stats
	MeanLen float64
	// Categorical top values (list items for list columns)
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// Profile infers a kind per column and summarizes it.
func Profile(f *Frame, opt ProfileOptions) *Report {
	rep := &Report{Name: f.Name, Rows: f.Len()}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}

	type colAcc struct {
		nonNil int
		miss   int
		// numeric stats via Welford
		n      int
		mean   float64
		m2     float64
		min    float64
		max    float64
		numCnt int
		dtCnt  int
		txtCnt int
		lstCnt int
		lstLen int
		cats   map[string]int
		items  map[string]int
		exText []string
	}
	ncol := len(f.Columns)
	cols := make([]*colAcc, ncol)
	for i := range cols {
		cols[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}, items: map[string]int{}}
	}

	for r, row := range f.Rows {
		if r >= maxRows {
			break
		}
		rep.Processed++
		if len(rep.Samples) < sampleRows {
			s := make([]string, ncol)
			for j := range s {
				if j < len(row) {
					s[j] = cellText(row[j])
				}
			}
			rep.Samples = append(rep.Samples, s)
		}
		for j := 0; j < ncol; j++ {
			c := cols[j]
			var v Value
			if j < len(row) {
				v = row[j]
			}
			if v == nil {
				c.miss++
				continue
			}
			c.nonNil++
			if items, ok := listItems(v); ok {
				c.lstCnt++
				c.lstLen += len(items)
				for _, it := range items {
					c.items[it]++
				}
				continue
			}
			x, isNum, err := AsFloat(v, opt.Numbers)
			if isNum && err == nil {
				c.numCnt++
				// Welford update
				c.n++
				if x < c.min {
					c.min = x
				}
				if x > c.max {
					c.max = x
				}
				delta := x - c.mean
				c.mean += delta / float64(c.n)
				c.m2 += delta * (x - c.mean)
				continue
			}
			s, _ := AsString(v)
			s = strings.TrimSpace(s)
			if _, ok := ParseTime(s); ok {
				c.dtCnt++
				continue
			}
			c.txtCnt++
			if len(c.cats) <= 10000 && len(s) <= 64 { // guard memory
				c.cats[s]++
			}
			if len(c.exText) < 3 {
				c.exText = append(c.exText, s)
			}
		}
	}

	rep.Cols = make([]ColumnSummary, 0, ncol)
	for idx, c := range cols {
		s := ColumnSummary{Name: f.Columns[idx], NonNull: c.nonNil, Missing: c.miss}
		kind := "unknown"
		switch {
		case c.lstCnt > 0 && c.lstCnt >= c.numCnt && c.lstCnt >= c.txtCnt:
			kind = "list"
			s.MeanLen = float64(c.lstLen) / float64(c.lstCnt)
			s.TopValues = topCounts(c.items, 8)
			s.Unique = len(c.items)
		case c.numCnt >= c.dtCnt && c.numCnt >= c.txtCnt && c.numCnt > 0:
			kind = "numeric"
			s.Min = c.min
			s.Max = c.max
			s.Mean = c.mean
			if c.n > 1 {
				s.Std = math.Sqrt(c.m2 / float64(c.n-1))
			}
		case c.dtCnt >= c.txtCnt && c.dtCnt > 0:
			kind = "datetime"
		case len(c.cats) > 0 && len(c.cats) <= categoricalLimit(c.txtCnt):
			kind = "categorical"
			s.TopValues = topCounts(c.cats, 8)
			s.Unique = len(c.cats)
		case c.txtCnt > 0:
			kind = "text"
			s.ExampleTexts = c.exText
		}
		s.Kind = kind
		rep.Cols = append(rep.Cols, s)
	}
	if rep.Processed < rep.Rows {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", rep.Processed, rep.Rows))
	}
	return rep
}

// categoricalLimit bounds the distinct labels a text column may have and
// still count as categorical.
func categoricalLimit(n int) int {
	if n < 20 {
		return n
	}
	return n / 2
}

// listItems reports structured lists and list-encoded text.
func listItems(v Value) ([]string, bool) {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, it := range x {
			s, _ := AsString(it)
			out = append(out, s)
		}
		return out, true
	case string:
		t := strings.TrimSpace(x)
		if !strings.HasPrefix(t, "[") {
			return nil, false
		}
		items, err := literal.ParseStrings(t)
		if err != nil {
			return nil, false
		}
		return items, true
	}
	return nil, false
}

func topCounts(m map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(m))
	for k, v := range m {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

func cellText(v Value) string {
	if items, ok := v.([]any); ok {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i], _ = AsString(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	s, _ := AsString(v)
	return s
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Processed > 0 && r.Processed < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", r.Rows, r.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical", "list":
			if c.Kind == "list" {
				b.WriteString(fmt.Sprintf(" — mean length %.2g", c.MeanLen))
			}
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" — e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
