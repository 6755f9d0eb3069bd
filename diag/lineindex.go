// Package diag holds the line-offset index and the diagnostic collection and
// rendering used by both the lexer and the parser.
package diag

// LineIndex maps a 0-based row to the [begin, end) byte offsets of that line
// in the source, end exclusive. It is built once, before scanning, and lives
// for the duration of a parse.
type LineIndex struct {
	source string
	lines  [][2]int // begin, end per row
}

// NewLineIndex scans source once and returns a populated LineIndex. Empty
// input produces a single line covering [0, 0).
func NewLineIndex(source string) *LineIndex {
	li := &LineIndex{source: source}
	begin := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			li.lines = append(li.lines, [2]int{begin, i + 1})
			begin = i + 1
		}
	}
	li.lines = append(li.lines, [2]int{begin, len(source)})
	return li
}

// LineCount returns the number of rows in the index.
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// Line returns the raw [begin, end) byte offsets for row.
func (li *LineIndex) Line(row int) (begin, end int) {
	if row < 0 || row >= len(li.lines) {
		return 0, 0
	}
	b := li.lines[row]
	return b[0], b[1]
}

// Excerpt returns the text of row with any trailing newline stripped.
func (li *LineIndex) Excerpt(row int) string {
	begin, end := li.Line(row)
	text := li.source[begin:end]
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
		}
	}
	return text
}
