// Package lexer scans UTF-8 JSON source text into a token.Token stream.
//
// Scanning is organized as three small DFAs — string, number, and literal —
// driven from a single dispatch loop in Next. Each DFA is error-tolerant: on
// a malformed lexeme it records a diag.Diagnostic and the outer loop skips
// forward to the next separator (whitespace, ',', ':', ']', '}', or
// end-of-source) instead of aborting the whole scan.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/juju/loggo"

	"github.com/cobaltgrove/jsonread/diag"
	"github.com/cobaltgrove/jsonread/token"
)

var logger = loggo.GetLogger("jsonread.lexer")

const eof = -1

// Lexer holds the cursor state of a single scan. It is not reusable across
// sources; construct a new one per input.
type Lexer struct {
	filename string
	input    string
	pos      int // byte offset of the next unread byte
	row      int // 0-based
	col      int // 0-based, counts bytes since the last newline

	start    int // byte offset where the current lexeme began
	startRow int
	startCol int

	reporter  *diag.Reporter
	lineIndex *diag.LineIndex
}

// New returns a Lexer ready to scan input. filename is used only for the
// position metadata attached to tokens; it may be empty.
func New(filename, input string, reporter *diag.Reporter) *Lexer {
	return &Lexer{
		filename:  filename,
		input:     input,
		reporter:  reporter,
		lineIndex: diag.NewLineIndex(input),
	}
}

// Tokenize scans the entire input and returns the resulting token stream,
// always terminated by exactly one EOF token. Any malformed lexemes are
// recorded on the Lexer's Reporter rather than aborting the scan.
func Tokenize(filename, input string, reporter *diag.Reporter) []token.Token {
	l := New(filename, input, reporter)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// LineIndex returns the LineIndex built for this Lexer's input, for reuse by
// a Parser rendering its own diagnostics against the same source.
func (l *Lexer) LineIndex() *diag.LineIndex { return l.lineIndex }

func (l *Lexer) byteAt(i int) int {
	if i < 0 || i >= len(l.input) {
		return eof
	}
	return int(l.input[i])
}

func (l *Lexer) current() int { return l.byteAt(l.pos) }

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.input) }

// advance consumes the current byte and returns it, updating row/col
// bookkeeping. It returns eof once the input is exhausted.
func (l *Lexer) advance() int {
	if l.isAtEnd() {
		return eof
	}
	b := l.input[l.pos]
	l.pos++
	if b == '\n' {
		l.row++
		l.col = 0
	} else {
		l.col++
	}
	return int(b)
}

func (l *Lexer) markStart() {
	l.start = l.pos
	l.startRow = l.row
	l.startCol = l.col
}

func (l *Lexer) makeToken(kind token.Kind, raw string) token.Token {
	return token.Token{
		Kind: kind,
		Raw:  raw,
		Len:  l.pos - l.start,
		Pos: plexer.Position{
			Filename: l.filename,
			Offset:   l.start,
			Line:     l.startRow + 1,
			Column:   l.startCol + 1,
		},
	}
}

func (l *Lexer) addDiag(message string, startRow, startCol, length int) {
	excerpt := l.lineIndex.Excerpt(startRow)
	l.reporter.Add(diag.Diagnostic{
		Kind:        diag.Lexical,
		Message:     message,
		LineExcerpt: excerpt,
		Row:         startRow,
		Col:         startCol,
		Len:         length,
	})
}

func isSeparator(b int) bool {
	switch b {
	case eof, ' ', '\t', '\n', '\r', ',', ':', ']', '}':
		return true
	default:
		return false
	}
}

// recoverToSeparator advances past the failed lexeme until the current byte
// is a separator, so the driver loop can resume scanning cleanly.
func (l *Lexer) recoverToSeparator() {
	for !isSeparator(l.current()) && !l.isAtEnd() {
		l.advance()
	}
}

func isDigit(b int) bool { return b >= '0' && b <= '9' }

func isHexDigit(b int) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// Next returns the next token in the input. The final call before end of
// input and every call after it returns a token.EOF token.
func (l *Lexer) Next() token.Token {
	for {
		if l.isAtEnd() {
			l.markStart()
			return l.makeToken(token.EOF, "")
		}

		switch b := l.current(); {
		case b == '\n':
			l.advance()
		case b == ' ' || b == '\t' || b == '\r':
			l.advance()
		case b == '{':
			l.markStart()
			l.advance()
			return l.makeToken(token.LBRACE, "{")
		case b == '}':
			l.markStart()
			l.advance()
			return l.makeToken(token.RBRACE, "}")
		case b == '[':
			l.markStart()
			l.advance()
			return l.makeToken(token.LBRACKET, "[")
		case b == ']':
			l.markStart()
			l.advance()
			return l.makeToken(token.RBRACKET, "]")
		case b == ',':
			l.markStart()
			l.advance()
			return l.makeToken(token.COMMA, ",")
		case b == ':':
			l.markStart()
			l.advance()
			return l.makeToken(token.COLON, ":")
		case b == '"':
			l.markStart()
			if tok, ok := l.lexString(); ok {
				return tok
			}
		case b == '-' || isDigit(b):
			l.markStart()
			if tok, ok := l.lexNumber(); ok {
				return tok
			}
		case b == 't' || b == 'f' || b == 'n':
			l.markStart()
			if tok, ok := l.lexLiteral(); ok {
				return tok
			}
		default:
			l.markStart()
			l.advance()
			l.recoverToSeparator()
			logger.Debugf("unknown value at %d:%d", l.startRow+1, l.startCol+1)
			l.addDiag("unknown value", l.startRow, l.startCol, l.pos-l.start)
		}
	}
}

// --- String DFA -------------------------------------------------------

// lexString implements the IN_STRING/ESCAPE/UNICODE_SEQ DFA. It returns
// ok=false when the lexeme was malformed and a diagnostic has already been
// recorded; the caller's outer loop resumes scanning from the recovery
// point lexString leaves the cursor at.
func (l *Lexer) lexString() (token.Token, bool) {
	l.advance() // opening quote

	var raw strings.Builder
	var pendingHigh rune
	hasPendingHigh := false

	flushPendingHigh := func() {
		if hasPendingHigh {
			raw.WriteRune(utf8.RuneError)
			hasPendingHigh = false
		}
	}

	for {
		if l.isAtEnd() || l.current() == '\n' {
			flushPendingHigh()
			l.addDiag("missing quotation mark", l.startRow, l.startCol, l.pos-l.start)
			return token.Token{}, false
		}

		b := l.current()
		if b == '"' {
			l.advance()
			flushPendingHigh()
			return l.makeToken(token.STR, raw.String()), true
		}

		if b == '\\' {
			l.advance()
			esc := l.current()
			switch esc {
			case '"', '\\', '/':
				flushPendingHigh()
				raw.WriteByte(byte(esc))
				l.advance()
			case 'b':
				flushPendingHigh()
				raw.WriteByte('\b')
				l.advance()
			case 'f':
				flushPendingHigh()
				raw.WriteByte('\f')
				l.advance()
			case 'n':
				flushPendingHigh()
				raw.WriteByte('\n')
				l.advance()
			case 'r':
				flushPendingHigh()
				raw.WriteByte('\r')
				l.advance()
			case 't':
				flushPendingHigh()
				raw.WriteByte('\t')
				l.advance()
			case 'u':
				l.advance()
				cp, ok := l.lexUnicodeEscape()
				if !ok {
					return token.Token{}, false
				}
				switch {
				case isHighSurrogate(cp):
					flushPendingHigh()
					pendingHigh = cp
					hasPendingHigh = true
				case isLowSurrogate(cp) && hasPendingHigh:
					raw.WriteRune(combineSurrogates(pendingHigh, cp))
					hasPendingHigh = false
				case isLowSurrogate(cp):
					raw.WriteRune(utf8.RuneError)
				default:
					flushPendingHigh()
					raw.WriteRune(cp)
				}
			default:
				flushPendingHigh()
				l.addDiag("invalid escape sequence", l.startRow, l.startCol, l.pos-l.start+1)
				l.recoverToSeparator()
				return token.Token{}, false
			}
			continue
		}

		flushPendingHigh()
		raw.WriteByte(byte(b))
		l.advance()
	}
}

// lexUnicodeEscape consumes exactly four hex digits after a recognized
// "\u" and returns the decoded codepoint.
func (l *Lexer) lexUnicodeEscape() (rune, bool) {
	start := l.pos
	for i := 0; i < 4; i++ {
		if l.isAtEnd() || l.current() == '\n' {
			l.addDiag("incomplete unicode escape", l.startRow, l.startCol, l.pos-l.start)
			return 0, false
		}
		if !isHexDigit(l.current()) {
			l.addDiag("invalid unicode escape", l.startRow, l.startCol, l.pos-l.start+1)
			l.recoverToSeparator()
			return 0, false
		}
		l.advance()
	}
	n, err := strconv.ParseUint(l.input[start:l.pos], 16, 32)
	if err != nil {
		l.addDiag("invalid unicode escape", l.startRow, l.startCol, l.pos-l.start)
		return 0, false
	}
	return rune(n), true
}

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func isLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

// combineSurrogates merges a high/low surrogate pair per RFC 8259 / UTF-16.
func combineSurrogates(high, low rune) rune {
	return 0x10000 + (high-0xD800)<<10 + (low - 0xDC00)
}

// --- Number DFA ---------------------------------------------------------

type numState int

const (
	numStart numState = iota
	numSign
	numZero
	numIntegral
	numFractionBegin
	numFraction
	numExponentBegin
	numExponentSign
	numExponent
)

// lexNumber implements the sign/integer/fraction/exponent DFA whose states
// are the numState constants above. The exponent accepts a leading '+' in
// addition to '-' for RFC 8259 interoperability.
func (l *Lexer) lexNumber() (token.Token, bool) {
	state := numStart

	for {
		b := l.current()
		switch state {
		case numStart:
			switch {
			case b == '-':
				state = numSign
			case b == '0':
				state = numZero
			case isDigit(b):
				state = numIntegral
			default:
				return l.failNumber("invalid number")
			}
			l.advance()
		case numSign:
			switch {
			case b == '0':
				state = numZero
				l.advance()
			case isDigit(b):
				state = numIntegral
				l.advance()
			default:
				return l.failNumber("invalid number")
			}
		case numZero, numIntegral, numFraction, numExponent:
			if isSeparator(b) {
				return l.makeToken(token.NUM, l.input[l.start:l.pos]), true
			}
			switch {
			case b == '.' && state != numFraction && state != numExponent:
				state = numFractionBegin
				l.advance()
			case (b == 'e' || b == 'E') && state != numExponent:
				state = numExponentBegin
				l.advance()
			case isDigit(b) && state != numZero:
				l.advance()
			case isDigit(b) && state == numZero:
				// leading zero followed by another digit: "00" is invalid.
				return l.failNumber("invalid number")
			default:
				return l.failNumber("invalid number")
			}
		case numFractionBegin:
			if !isDigit(b) {
				return l.failNumber("incomplete number literal")
			}
			state = numFraction
			l.advance()
		case numExponentBegin:
			switch {
			case b == '-' || b == '+':
				state = numExponentSign
				l.advance()
			case isDigit(b):
				state = numExponent
				l.advance()
			default:
				return l.failNumber("incomplete number literal")
			}
		case numExponentSign:
			if !isDigit(b) {
				return l.failNumber("incomplete number literal")
			}
			state = numExponent
			l.advance()
		}
	}
}

func (l *Lexer) failNumber(message string) (token.Token, bool) {
	l.recoverToSeparator()
	l.addDiag(message, l.startRow, l.startCol, l.pos-l.start)
	return token.Token{}, false
}

// --- Literal DFA ---------------------------------------------------------

var literals = map[byte]struct {
	word string
	kind token.Kind
	hint string
}{
	't': {"true", token.TRUE, "true"},
	'f': {"false", token.FALSE, "false"},
	'n': {"null", token.NULL, "null"},
}

// lexLiteral matches a straight-line keyword (true/false/null). It only
// succeeds if the byte following the keyword is a separator.
func (l *Lexer) lexLiteral() (token.Token, bool) {
	def := literals[byte(l.current())]
	for i := 0; i < len(def.word); i++ {
		if l.isAtEnd() || l.current() != def.word[i] {
			l.recoverToSeparator()
			l.addDiag("invalid json literal, may be you mean "+def.hint+"?", l.startRow, l.startCol, l.pos-l.start)
			return token.Token{}, false
		}
		l.advance()
	}
	if !isSeparator(l.current()) {
		l.recoverToSeparator()
		l.addDiag("invalid json literal, may be you mean "+def.hint+"?", l.startRow, l.startCol, l.pos-l.start)
		return token.Token{}, false
	}
	return l.makeToken(def.kind, def.word), true
}
