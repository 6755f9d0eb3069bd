// Package jsonread is the entry point of the JSON reader: it wires the
// lexer, parser, and value model together behind Parse and ParseFile.
package jsonread

import (
	"github.com/juju/loggo"

	"github.com/cobaltgrove/jsonread/diag"
	"github.com/cobaltgrove/jsonread/lexer"
	"github.com/cobaltgrove/jsonread/loader"
	"github.com/cobaltgrove/jsonread/parser"
	"github.com/cobaltgrove/jsonread/value"
)

var logger = loggo.GetLogger("jsonread")

// Option configures a Parse/ParseFile call. See WithAllowTrailingComma,
// WithAllowTopLevelScalar, WithThrowAllErrors, WithMaxDepth, and WithBuilder.
type Option func(*config)

type config struct {
	opts    parser.Options
	builder value.Builder
}

func newConfig() *config {
	return &config{
		opts:    parser.DefaultOptions(),
		builder: value.DefaultBuilder{},
	}
}

// WithAllowTrailingComma permits a comma before a closing '}' or ']'.
func WithAllowTrailingComma(allow bool) Option {
	return func(c *config) { c.opts.AllowTrailingComma = allow }
}

// WithAllowTopLevelScalar permits a bare scalar at the document root.
func WithAllowTopLevelScalar(allow bool) Option {
	return func(c *config) { c.opts.AllowTopLevelScalar = allow }
}

// WithThrowAllErrors controls whether the Reporter returned on failure
// renders every collected diagnostic (true, the default) or only the first
// (false) when its RenderDefault or Error method is used.
func WithThrowAllErrors(all bool) Option {
	return func(c *config) { c.opts.ThrowAllErrors = all }
}

// WithMaxDepth bounds container nesting; 0 disables the guard.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.opts.MaxDepth = depth }
}

// WithBuilder injects an alternative value.Builder in place of
// value.DefaultBuilder, for callers with their own value representation.
func WithBuilder(b value.Builder) Option {
	return func(c *config) { c.builder = b }
}

// Parse scans and parses text. If the Lexer or Parser recorded any
// diagnostic, the returned Reporter is non-nil and the Value is the zero
// value; otherwise the Reporter is nil and the Value is the parsed root.
func Parse(text string, opts ...Option) (value.Value, *diag.Reporter) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger.Debugf("parse started (%d bytes)", len(text))

	reporter := diag.NewReporter()
	lineIndex := diag.NewLineIndex(text)
	toks := lexer.Tokenize("", text, reporter)
	v := parser.Parse(toks, lineIndex, reporter, cfg.builder, cfg.opts)

	logger.Debugf("parse finished (%d diagnostics)", len(reporter.Diagnostics()))

	if reporter.HasErrors() {
		reporter.SetThrowAll(cfg.opts.ThrowAllErrors)
		return value.Value{}, reporter
	}
	return v, nil
}

// ParseFile loads path via loader.Load, then parses its contents. A non-nil
// error return means path resolution or reading failed; it is distinct
// from the *diag.Reporter, which covers only lexical/syntactic failures
// once the file was successfully read.
func ParseFile(path string, opts ...Option) (value.Value, *diag.Reporter, error) {
	text, err := loader.Load(path)
	if err != nil {
		return value.Value{}, nil, err
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger.Debugf("parse file started: %s", path)

	reporter := diag.NewReporter()
	lineIndex := diag.NewLineIndex(text)
	toks := lexer.Tokenize(path, text, reporter)
	v := parser.Parse(toks, lineIndex, reporter, cfg.builder, cfg.opts)

	logger.Debugf("parse file finished: %s (%d diagnostics)", path, len(reporter.Diagnostics()))

	if reporter.HasErrors() {
		reporter.SetThrowAll(cfg.opts.ThrowAllErrors)
		return value.Value{}, reporter, nil
	}
	return v, nil, nil
}
