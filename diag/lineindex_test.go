package diag_test

import (
	"testing"

	"github.com/cobaltgrove/jsonread/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineIndex(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantLines []string
	}{
		{
			name:      "empty input is a single empty line",
			source:    "",
			wantLines: []string{""},
		},
		{
			name:      "no trailing newline",
			source:    "abc",
			wantLines: []string{"abc"},
		},
		{
			name:      "trailing newline starts an empty final line",
			source:    "abc\n",
			wantLines: []string{"abc", ""},
		},
		{
			name:      "multiple lines",
			source:    "{\n  \"a\": 1\n}",
			wantLines: []string{"{", `  "a": 1`, "}"},
		},
		{
			name:      "carriage return is stripped from excerpt",
			source:    "abc\r\ndef",
			wantLines: []string{"abc", "def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := diag.NewLineIndex(tt.source)
			require.Equal(t, len(tt.wantLines), li.LineCount())
			for row, want := range tt.wantLines {
				assert.Equal(t, want, li.Excerpt(row), "row %d", row)
			}
		})
	}
}

func TestLineIndexCoversSourceEndToEnd(t *testing.T) {
	source := "line one\nline two\nline three"
	li := diag.NewLineIndex(source)

	prevEnd := 0
	for row := 0; row < li.LineCount(); row++ {
		begin, end := li.Line(row)
		assert.Equal(t, prevEnd, begin, "row %d should start where the previous one ended", row)
		assert.LessOrEqual(t, begin, end)
		prevEnd = end
	}
	assert.Equal(t, len(source), prevEnd, "last line should end at source length")
}
