// Package parser implements a recursive-descent consumer of a token.Token
// stream. It builds a value.Value tree through a value.Builder the caller
// supplies, and tolerates syntactic errors by entering panic mode: it
// records a diagnostic, skips forward to a synchronization token, and
// resumes the enclosing construct instead of aborting the whole parse.
package parser

import (
	"strconv"
	"strings"

	"github.com/juju/loggo"

	"github.com/cobaltgrove/jsonread/diag"
	"github.com/cobaltgrove/jsonread/token"
	"github.com/cobaltgrove/jsonread/value"
)

var logger = loggo.GetLogger("jsonread.parser")

// syncSet is the set of token kinds panic-mode recovery treats as
// synchronization points.
var syncSet = map[token.Kind]bool{
	token.COMMA:    true,
	token.LBRACE:   true,
	token.RBRACE:   true,
	token.LBRACKET: true,
	token.RBRACKET: true,
	token.EOF:      true,
}

// Parser consumes a fixed token stream once; it is not reusable.
type Parser struct {
	toks      []token.Token
	pos       int
	lineIndex *diag.LineIndex
	reporter  *diag.Reporter
	builder   value.Builder
	opts      Options

	depthReported bool
}

// New returns a Parser ready to consume toks.
func New(toks []token.Token, lineIndex *diag.LineIndex, reporter *diag.Reporter, builder value.Builder, opts Options) *Parser {
	return &Parser{
		toks:      toks,
		lineIndex: lineIndex,
		reporter:  reporter,
		builder:   builder,
		opts:      opts,
	}
}

// Parse runs a Parser over toks and returns the parsed root Value. Callers
// should check reporter.HasErrors() after return to decide whether the
// result is usable.
func Parse(toks []token.Token, lineIndex *diag.LineIndex, reporter *diag.Reporter, builder value.Builder, opts Options) value.Value {
	p := New(toks, lineIndex, reporter, builder, opts)
	return p.parseRoot()
}

func (p *Parser) current() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // the trailing EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool { return p.current().Kind == k }

// previous returns the last token consumed by advance. Called only where a
// prior advance is guaranteed (parsing a key or a value before looking for
// the following separator), so pos > 0.
func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) addDiagAt(kind diag.Kind, message string, tok token.Token) {
	logger.Debugf("%s at %d:%d: %s", kind, tok.Pos.Line, tok.Pos.Column, message)
	row := tok.Row()
	p.reporter.Add(diag.Diagnostic{
		Kind:        kind,
		Message:     message,
		LineExcerpt: p.lineIndex.Excerpt(row),
		Row:         row,
		Col:         tok.Col(),
		Len:         max(tok.Len, 1),
	})
}

// addDiagPastToken records a diagnostic anchored at the column immediately
// following tok, for errors that describe a missing token in the gap after
// something already consumed (a missing colon past the key, a missing comma
// past the previous member/element, a missing close bracket past the last
// token) rather than a defect in tok itself.
func (p *Parser) addDiagPastToken(kind diag.Kind, message string, tok token.Token) {
	row := tok.Row()
	col := tok.Col() + tok.Len
	logger.Debugf("%s past %d:%d: %s", kind, tok.Pos.Line, col+1, message)
	p.reporter.Add(diag.Diagnostic{
		Kind:        kind,
		Message:     message,
		LineExcerpt: p.lineIndex.Excerpt(row),
		Row:         row,
		Col:         col,
		Len:         1,
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// synchronize advances until the current token is a member of syncSet,
// which always includes EOF and so always terminates.
func (p *Parser) synchronize() {
	for !syncSet[p.current().Kind] {
		p.advance()
	}
}

// afterSync is called once the cursor sits on a synchronization token. It
// consumes a bridging comma (handling a possible trailing comma before
// closeKind) and reports whether the enclosing container loop should exit.
func (p *Parser) afterSync(closeKind token.Kind) (brk bool) {
	switch p.current().Kind {
	case token.COMMA:
		p.advance()
		if p.check(closeKind) {
			if !p.opts.AllowTrailingComma {
				p.addDiagAt(diag.Syntax, "trailing comma is not allowed", p.current())
			}
			p.advance()
			return true
		}
		return false
	case token.EOF:
		return true
	default:
		if p.check(closeKind) {
			p.advance()
		}
		return true
	}
}

func (p *Parser) parseRoot() value.Value {
	switch p.current().Kind {
	case token.LBRACE:
		return p.parseObject(1)
	case token.LBRACKET:
		return p.parseArray(1)
	default:
		if p.opts.AllowTopLevelScalar {
			return p.parseScalarOrContainer(1)
		}
		p.addDiagAt(diag.Syntax, "json top level should be object or array", p.current())
		return p.parseScalarOrContainer(1)
	}
}

func (p *Parser) parseScalarOrContainer(depth int) value.Value {
	switch p.current().Kind {
	case token.LBRACE:
		return p.parseObject(depth)
	case token.LBRACKET:
		return p.parseArray(depth)
	case token.STR:
		return p.builder.String(p.advance().Raw)
	case token.NUM:
		return p.parseNumber(p.advance())
	case token.TRUE:
		p.advance()
		return p.builder.Bool(true)
	case token.FALSE:
		p.advance()
		return p.builder.Bool(false)
	case token.NULL:
		p.advance()
		return p.builder.Null()
	default:
		p.addDiagAt(diag.Syntax, "expected a valid json value type here", p.current())
		return p.builder.Null()
	}
}

func (p *Parser) exceedsDepth(depth int, at token.Token) bool {
	if p.opts.MaxDepth <= 0 || depth <= p.opts.MaxDepth {
		return false
	}
	if !p.depthReported {
		p.addDiagAt(diag.Syntax, "maximum nesting depth exceeded", at)
		p.depthReported = true
	}
	return true
}

// skipToClose consumes tokens, tracking nested openKind/closeKind pairs,
// until it passes the close matching the already-consumed open. Used to
// leave the cursor in a sane place after a depth-guard abort.
func (p *Parser) skipToClose(openKind, closeKind token.Kind) {
	depth := 1
	for {
		switch p.current().Kind {
		case token.EOF:
			return
		case openKind:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) parseObject(depth int) value.Value {
	open := p.advance()
	members := map[string]value.Value{}

	if p.exceedsDepth(depth, open) {
		p.skipToClose(token.LBRACE, token.RBRACE)
		return p.builder.Object(members)
	}
	if p.check(token.RBRACE) {
		p.advance()
		return p.builder.Object(members)
	}

	for {
		if p.check(token.EOF) {
			p.addDiagPastToken(diag.Syntax, "json object not closed", p.previous())
			return p.builder.Object(members)
		}

		key, ok := p.parseKey()
		if !ok {
			p.synchronize()
			if p.afterSync(token.RBRACE) {
				return p.builder.Object(members)
			}
			continue
		}
		if !p.parseColon() {
			p.synchronize()
			if p.afterSync(token.RBRACE) {
				return p.builder.Object(members)
			}
			continue
		}

		members[key] = p.parseScalarOrContainer(depth + 1)

		switch p.current().Kind {
		case token.COMMA:
			p.advance()
			if p.check(token.RBRACE) {
				if !p.opts.AllowTrailingComma {
					p.addDiagAt(diag.Syntax, "trailing comma is not allowed", p.current())
				}
				p.advance()
				return p.builder.Object(members)
			}
		case token.RBRACE:
			p.advance()
			return p.builder.Object(members)
		case token.EOF:
			p.addDiagPastToken(diag.Syntax, "json object not closed", p.previous())
			return p.builder.Object(members)
		default:
			p.addDiagPastToken(diag.Syntax, "expected ',' or '}' here", p.previous())
			p.synchronize()
			if p.afterSync(token.RBRACE) {
				return p.builder.Object(members)
			}
		}
	}
}

func (p *Parser) parseArray(depth int) value.Value {
	open := p.advance()
	var elems []value.Value

	if p.exceedsDepth(depth, open) {
		p.skipToClose(token.LBRACKET, token.RBRACKET)
		return p.builder.Array(elems)
	}
	if p.check(token.RBRACKET) {
		p.advance()
		return p.builder.Array(elems)
	}

	for {
		if p.check(token.EOF) {
			p.addDiagPastToken(diag.Syntax, "json array not closed", p.previous())
			return p.builder.Array(elems)
		}

		elems = append(elems, p.parseScalarOrContainer(depth+1))

		switch p.current().Kind {
		case token.COMMA:
			p.advance()
			if p.check(token.RBRACKET) {
				if !p.opts.AllowTrailingComma {
					p.addDiagAt(diag.Syntax, "trailing comma is not allowed", p.current())
				}
				p.advance()
				return p.builder.Array(elems)
			}
		case token.RBRACKET:
			p.advance()
			return p.builder.Array(elems)
		case token.EOF:
			p.addDiagPastToken(diag.Syntax, "json array not closed", p.previous())
			return p.builder.Array(elems)
		default:
			p.addDiagPastToken(diag.Syntax, "expected ',' or ']' here", p.previous())
			p.synchronize()
			if p.afterSync(token.RBRACKET) {
				return p.builder.Array(elems)
			}
		}
	}
}

func (p *Parser) parseKey() (string, bool) {
	tok := p.current()
	if tok.Kind != token.STR {
		p.addDiagAt(diag.Syntax, "object key must be string", tok)
		return "", false
	}
	p.advance()
	return tok.Raw, true
}

func (p *Parser) parseColon() bool {
	if !p.check(token.COLON) {
		p.addDiagPastToken(diag.Syntax, "expected a colon after key", p.previous())
		return false
	}
	p.advance()
	return true
}

// parseNumber dispatches a NUM token's raw lexeme to int64 or float64
// depending on whether it looks like a fraction/exponent. An int64 that
// overflows is promoted to float64 rather than reported as an error.
func (p *Parser) parseNumber(tok token.Token) value.Value {
	raw := tok.Raw
	if strings.ContainsAny(raw, ".eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			p.addDiagAt(diag.Syntax, "invalid number literal", tok)
			return p.builder.Float(0)
		}
		return p.builder.Float(f)
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return p.builder.Int(i)
	}
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			return p.builder.Float(f)
		}
	}
	p.addDiagAt(diag.Syntax, "invalid number literal", tok)
	return p.builder.Int(0)
}
