package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/shirtsort/internal/colour"
)

// Table renders rows of photo or group data as aligned plain-text columns.
// Column widths ignore ANSI sequences, so colour swatches line up.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // 0 or missing = unbounded
	right     map[int]bool
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		padding:   2,
		maxWidths: make(map[int]int),
		right:     make(map[int]bool),
	}
}

// SetColumnMaxWidth wraps cells in column col at width runes.
func (t *Table) SetColumnMaxWidth(col, width int) {
	t.maxWidths[col] = width
}

// AlignRight right-aligns column col, for counts and scores.
func (t *Table) AlignRight(col int) {
	t.right[col] = true
}

// AddRow appends a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render returns the table with a header line and a dashed separator.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Each cell becomes one or more lines.
	cells := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		cells[r] = make([][]string, len(row))
		for c, cell := range row {
			cells[r][c] = wrapText(cell, t.maxWidths[c])
		}
	}

	widths := make([]int, len(t.headers))
	for c, h := range t.headers {
		widths[c] = displayWidth(h)
	}
	for _, row := range cells {
		for c, lines := range row {
			for _, line := range lines {
				widths[c] = max(widths[c], displayWidth(line))
			}
		}
	}

	gap := strings.Repeat(" ", t.padding)
	var b strings.Builder
	writeLine := func(parts []string) {
		b.WriteString(strings.Join(parts, gap))
		b.WriteByte('\n')
	}

	parts := make([]string, len(t.headers))
	for c, h := range t.headers {
		parts[c] = t.pad(c, h, widths[c])
	}
	writeLine(parts)

	for c, w := range widths {
		parts[c] = strings.Repeat("-", w)
	}
	writeLine(parts)

	for _, row := range cells {
		height := 1
		for _, lines := range row {
			height = max(height, len(lines))
		}
		for i := 0; i < height; i++ {
			for c := range t.headers {
				text := ""
				if i < len(row[c]) {
					text = row[c][i]
				}
				parts[c] = t.pad(c, text, widths[c])
			}
			writeLine(parts)
		}
	}

	return b.String()
}

func (t *Table) pad(col int, s string, width int) string {
	if t.right[col] {
		return padLeft(s, width)
	}
	return padRight(s, width)
}

// displayWidth is the number of runes shown on screen for s.
func displayWidth(s string) int {
	return utf8.RuneCountInString(colour.StripANSI(s))
}

// padRight pads s with spaces up to width. Longer strings are returned as is.
func padRight(s string, width int) string {
	if w := displayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := displayWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// wrapText breaks text into lines of at most width bytes at word boundaries.
// Words longer than width are split. A width of 0 disables wrapping.
func wrapText(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	line := ""
	for _, word := range words {
		for len(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
