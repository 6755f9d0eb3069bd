package diag_test

import (
	"strings"
	"testing"

	"github.com/cobaltgrove/jsonread/diag"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterHasErrors(t *testing.T) {
	r := diag.NewReporter()
	assert.False(t, r.HasErrors())

	r.Add(diag.Diagnostic{Kind: diag.Syntax, Message: "boom", Row: 0, Col: 0, Len: 1})
	assert.True(t, r.HasErrors())
}

func TestReporterRenderSingleVsAll(t *testing.T) {
	r := diag.NewReporter()
	r.Add(diag.Diagnostic{
		Kind: diag.Lexical, Message: "missing quotation mark",
		LineExcerpt: `{"a": "b}`, Row: 0, Col: 6, Len: 3,
	})
	r.Add(diag.Diagnostic{
		Kind: diag.Syntax, Message: "json object not closed",
		LineExcerpt: `{"a": "b}`, Row: 0, Col: 9, Len: 1,
	})

	first := r.Render(false)
	require.Equal(t, 1, strings.Count(first, "[Row:"), "rendering only the first diagnostic")
	assert.NotContains(t, first, "not closed")

	all := r.Render(true)
	assert.Equal(t, 2, strings.Count(all, "[Row:"))
	assert.Contains(t, all, "- - - - - - -")
}

func TestReporterRenderAlignsTildes(t *testing.T) {
	r := diag.NewReporter()
	r.Add(diag.Diagnostic{
		Message:     "invalid number literal",
		LineExcerpt: `{"a": 12.}`,
		Row:         0,
		Col:         6,
		Len:         3,
	})

	out := r.Render(true)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	header, excerptLine, carets := lines[0], lines[1], lines[2]
	assert.Equal(t, "[Row: 1, Col: 7] invalid number literal", header)
	assert.Equal(t, `1 | {"a": 12.}`, excerptLine)

	// The tilde run must start exactly under column 7 (1-based) of the
	// excerpt, i.e. under the "1" of "12.".
	prefixLen := len(excerptLine[:strings.Index(excerptLine, "|")+2]) + 6
	assert.Equal(t, strings.Repeat(" ", prefixLen)+"~~~", carets)
}

func TestReporterDiagnosticsDiff(t *testing.T) {
	r := diag.NewReporter()
	r.Add(diag.Diagnostic{Message: "a", Row: 0, Col: 0, Len: 1})

	want := []diag.Diagnostic{{Message: "a", Row: 0, Col: 0, Len: 1}}
	if diff := pretty.Compare(want, r.Diagnostics()); diff != "" {
		t.Errorf("Diagnostics() mismatch (-want +got):\n%s", diff)
	}
}
