package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to at most width display cells, ending with "...".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// MarkdownTable renders a Markdown table whose columns are padded to their
// display width, so CJK titles line up in a terminal.
func MarkdownTable(header []string, rows [][]string) string {
	colCount := len(header)
	for _, r := range rows {
		if len(r) > colCount {
			colCount = len(r)
		}
	}
	if colCount == 0 {
		return ""
	}
	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.ReplaceAll(strings.ReplaceAll(row[i], "\n", " "), "|", "/")
		}
		return ""
	}

	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = 3
	}
	for _, row := range append([][]string{header}, rows...) {
		for i := 0; i < colCount; i++ {
			if w := runewidth.StringWidth(cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i := 0; i < colCount; i++ {
			content := cell(row, i)
			sb.WriteString(" ")
			sb.WriteString(content)
			if pad := widths[i] - runewidth.StringWidth(content); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	writeRow(header)
	sb.WriteString("|")
	for i := 0; i < colCount; i++ {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
	for _, r := range rows {
		writeRow(r)
	}
	return sb.String()
}
