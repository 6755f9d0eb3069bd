// Package token defines the lexeme kinds produced by the lexer and consumed
// by the parser.
package token

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind identifies the grammatical category of a Token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	COLON    // :

	STR   // a decoded JSON string
	NUM   // a numeric literal, not yet dispatched to int/float
	TRUE  // true
	FALSE // false
	NULL  // null
)

var names = map[Kind]string{
	EOF:      "EOF",
	ILLEGAL:  "ILLEGAL",
	LBRACE:   "LBRACE",
	RBRACE:   "RBRACE",
	LBRACKET: "LBRACKET",
	RBRACKET: "RBRACKET",
	COMMA:    "COMMA",
	COLON:    "COLON",
	STR:      "STR",
	NUM:      "NUM",
	TRUE:     "TRUE",
	FALSE:    "FALSE",
	NULL:     "NULL",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexeme. Raw holds the lexeme's logical value: for STR
// tokens this is the decoded string content (escapes resolved), not the
// quoted source text. Pos.Line and Pos.Column are 1-based and point at the
// first character of the lexeme as it appears in the source, before any
// decoding. Len is the byte width of the raw source slice the lexeme
// occupied, used to align diagnostic highlights.
type Token struct {
	Kind Kind
	Raw  string
	Pos  lexer.Position
	Len  int
}

// Row returns the 0-based line index of the token, matching diag.LineIndex's
// row numbering.
func (t Token) Row() int { return t.Pos.Line - 1 }

// Col returns the 0-based column of the token.
func (t Token) Col() int { return t.Pos.Column - 1 }

func (t Token) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %q", t.Pos.Filename, t.Pos.Line, t.Pos.Column, t.Kind, t.Raw)
}
