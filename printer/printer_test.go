package printer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltgrove/jsonread/diag"
	"github.com/cobaltgrove/jsonread/lexer"
	"github.com/cobaltgrove/jsonread/parser"
	"github.com/cobaltgrove/jsonread/printer"
	"github.com/cobaltgrove/jsonread/value"
)

func parseText(t *testing.T, src string) value.Value {
	t.Helper()
	r := diag.NewReporter()
	toks := lexer.Tokenize(t.Name(), src, r)
	li := diag.NewLineIndex(src)
	v := parser.Parse(toks, li, r, value.DefaultBuilder{}, parser.DefaultOptions())
	require.False(t, r.HasErrors(), "unexpected diagnostics: %s", r.Render(true))
	return v
}

func TestPrinterScalarsAndIndent(t *testing.T) {
	v := parseText(t, `[1, "a", true, false, null, 1.5]`)
	out, err := printer.Sprint(v, "  ")
	require.NoError(t, err)
	want := "[\n  1,\n  \"a\",\n  true,\n  false,\n  null,\n  1.5\n]"
	assert.Equal(t, want, out)
}

func TestPrinterEmptyContainers(t *testing.T) {
	v := parseText(t, `{"a": [], "b": {}}`)
	out, err := printer.Sprint(v, "")
	require.NoError(t, err)
	assert.Contains(t, out, `"a": []`)
	assert.Contains(t, out, `"b": {}`)
}

func TestPrinterEscapesStrings(t *testing.T) {
	b := value.DefaultBuilder{}
	v := b.String("a\n\"b\"\\c")
	out, err := printer.Sprint(v, "  ")
	require.NoError(t, err)
	assert.Equal(t, `"a\n\"b\"\\c"`, out)
}

// TestPrinterRoundTrip re-parses printed output and checks the resulting
// tree is structurally identical; object key order is explicitly not part
// of that comparison since the value model does not preserve it.
func TestPrinterRoundTrip(t *testing.T) {
	src := `{"name": "gopher", "tags": ["x", "y"], "n": 42, "pi": 3.14, "ok": true, "nil": null}`
	v := parseText(t, src)

	out, err := printer.Sprint(v, "  ")
	require.NoError(t, err)

	reparsed := parseText(t, out)
	if diff := cmp.Diff(toComparable(v), toComparable(reparsed)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// toComparable converts a value.Value into plain Go data so go-cmp can diff
// it without reaching into value's unexported fields.
func toComparable(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInt:
		i, _ := v.AsInt()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindArray:
		arr, _ := v.AsArray()
		out := make([]interface{}, len(arr))
		for i, e := range arr {
			out[i] = toComparable(e)
		}
		return out
	case value.KindObject:
		obj, _ := v.AsObject()
		out := make(map[string]interface{}, len(obj))
		for k, e := range obj {
			out[k] = toComparable(e)
		}
		return out
	default:
		return nil
	}
}
