package diag

import (
	"fmt"
	"strconv"
	"strings"
)

const separator = "- - - - - - -"

// Reporter collects Diagnostics in insertion order and formats them for
// display. The lexer and parser both borrow the same Reporter for the
// duration of a single parse; neither owns it exclusively.
type Reporter struct {
	diags    []Diagnostic
	throwAll bool
}

// NewReporter returns an empty Reporter. throwAll defaults to true, matching
// Options.ThrowAllErrors' default; callers that want only the first
// diagnostic rendered should call SetThrowAll(false).
func NewReporter() *Reporter {
	return &Reporter{throwAll: true}
}

// SetThrowAll controls what RenderDefault renders: every collected
// diagnostic when true, only the first when false.
func (r *Reporter) SetThrowAll(all bool) {
	r.throwAll = all
}

// Add appends d to the collected diagnostics.
func (r *Reporter) Add(d Diagnostic) {
	r.diags = append(r.diags, d)
}

// HasErrors reports whether any diagnostic has been collected.
func (r *Reporter) HasErrors() bool {
	return len(r.diags) > 0
}

// Diagnostics returns the collected diagnostics in insertion order: in a
// parse, every lexer diagnostic comes before every parser diagnostic.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// Render formats the collected diagnostics. When all is false, only the
// first diagnostic is rendered; when true, every diagnostic is rendered,
// separated by a thin rule.
func (r *Reporter) Render(all bool) string {
	diags := r.diags
	if !all && len(diags) > 1 {
		diags = diags[:1]
	}
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteString(separator)
			b.WriteByte('\n')
		}
		writeDiagnostic(&b, d)
	}
	return b.String()
}

// RenderDefault renders using the mode set by SetThrowAll (true unless
// overridden), rather than requiring the caller to track that flag itself.
func (r *Reporter) RenderDefault() string {
	return r.Render(r.throwAll)
}

// Error satisfies the error interface so a Reporter can be returned or
// wrapped like any other error when convenient for callers.
func (r *Reporter) Error() string {
	return r.RenderDefault()
}

func writeDiagnostic(b *strings.Builder, d Diagnostic) {
	row := d.Row + 1
	col := d.Col + 1
	fmt.Fprintf(b, "[Row: %d, Col: %d] %s\n", row, col, d.Message)

	rowLabel := strconv.Itoa(row)
	fmt.Fprintf(b, "%s | %s\n", rowLabel, d.LineExcerpt)

	indent := strings.Repeat(" ", len(rowLabel)+3+d.Col)
	tildes := strings.Repeat("~", max(d.Len, 1))
	b.WriteString(indent)
	b.WriteString(tildes)
	b.WriteByte('\n')
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
